package types

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// NormalizeCurrency trims and upper-cases an ISO-4217 code and checks
// that it is a known currency.
func NormalizeCurrency(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return "", fmt.Errorf("types: empty currency code")
	}
	if money.GetCurrency(c) == nil {
		return "", fmt.Errorf("types: unknown currency %q", c)
	}
	return c, nil
}

// FormatAmount renders a for humans in the currency's own notation,
// truncated to the currency's minor unit (e.g. "$70.00").
// Unknown currencies fall back to "<amount> <code>".
func FormatAmount(a Amount, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return a.String() + " " + currency
	}
	minor := a.Decimal().Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
