// Package fx provides currency-pair rate lookup for quoting.
//
// Rates are looked up literally: a table holding USD/EUR says nothing about
// EUR/USD, and no cross rate is ever derived from two other pairs.
package fx

import (
	"fmt"
	"strings"
	"time"

	"github.com/xraph/finledger/types"
)

// Pair is an ordered (base, quote) currency pair.
type Pair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// NewPair returns the pair with both codes trimmed and upper-cased.
func NewPair(base, quote string) Pair {
	return Pair{Base: normalizeCode(base), Quote: normalizeCode(quote)}
}

// ParsePair parses "BASE/QUOTE", case-insensitively.
func ParsePair(s string) (Pair, error) {
	base, quote, ok := strings.Cut(s, "/")
	p := NewPair(base, quote)
	if !ok || p.Base == "" || p.Quote == "" {
		return Pair{}, fmt.Errorf("fx: invalid pair %q, want BASE/QUOTE", s)
	}
	return p, nil
}

func (p Pair) String() string { return p.Base + "/" + p.Quote }

func normalizeCode(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// Source looks up the rate for converting one unit of base into quote.
type Source interface {
	Lookup(base, quote string) (types.Rate, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(base, quote string) (types.Rate, bool)

// Lookup implements Source.
func (f SourceFunc) Lookup(base, quote string) (types.Rate, bool) { return f(base, quote) }

// Table is a static Source keyed by upper-case pairs.
type Table map[Pair]types.Rate

// Lookup implements Source. Codes are matched case-insensitively.
func (t Table) Lookup(base, quote string) (types.Rate, bool) {
	r, ok := t[NewPair(base, quote)]
	return r, ok
}

// Pairs returns the number of pairs in the table.
func (t Table) Pairs() int { return len(t) }

// DefaultTable returns the built-in quoting table.
func DefaultTable() Table {
	return Table{
		{"USD", "EUR"}: types.MustRate("0.91000000"),
		{"EUR", "USD"}: types.MustRate("1.09890110"),
		{"USD", "NPR"}: types.MustRate("134.00000000"),
		{"NPR", "USD"}: types.MustRate("0.00746269"),
		{"EUR", "NPR"}: types.MustRate("147.40000000"),
		{"NPR", "EUR"}: types.MustRate("0.00678426"),
	}
}

// ParseTable builds a Table from "BASE/QUOTE" -> "rate" entries.
// Rates must be positive.
func ParseTable(entries map[string]string) (Table, error) {
	t := make(Table, len(entries))
	for k, v := range entries {
		p, err := ParsePair(k)
		if err != nil {
			return nil, err
		}
		r, err := types.ParseRate(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("fx: pair %s: %w", p, err)
		}
		if !r.IsPositive() {
			return nil, fmt.Errorf("fx: pair %s: rate must be positive, got %s", p, r)
		}
		if _, dup := t[p]; dup {
			return nil, fmt.Errorf("fx: duplicate pair %s", p)
		}
		t[p] = r
	}
	return t, nil
}

// Quote is a point-in-time rate for a pair.
type Quote struct {
	Base      string     `json:"base"`
	Quote     string     `json:"quote"`
	Rate      types.Rate `json:"rate"`
	Timestamp time.Time  `json:"timestamp"`
}
