// Package types provides the value types shared across the ledger:
// fixed-point amounts and rates, calendar dates, currency codes and
// entity timestamps.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Canonical fractional precision of stored values.
const (
	AmountScale int32 = 4 // money
	RateScale   int32 = 8 // FX rates
)

// Accepted magnitude of parsed values. Amounts carry 18 significant
// digits at scale 4 and rates 18 at scale 8.
const (
	MaxAmountIntDigits = 14
	MaxRateIntDigits   = 10
	MaxFractionDigits  = 18
)

// checkBounds rejects d before any rescaling when its integer part has
// more than maxInt digits or it carries more than MaxFractionDigits
// fractional digits.
func checkBounds(d decimal.Decimal, maxInt int) error {
	exp := d.Exponent()
	if exp < -MaxFractionDigits {
		return fmt.Errorf("more than %d fractional digits", MaxFractionDigits)
	}
	if intDigits := int64(d.NumDigits()) + int64(exp); intDigits > int64(maxInt) {
		return fmt.Errorf("more than %d integer digits", maxInt)
	}
	return nil
}

// Normalize rounds d to AmountScale digits, half away from zero.
// Applying it twice is the same as applying it once.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// NormalizeRate rounds d to RateScale digits, half away from zero.
func NormalizeRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// Amount is a monetary quantity with exactly four fractional digits.
// Every constructor and arithmetic result is normalized, so an Amount
// observed anywhere is already in canonical form. The zero value is 0.0000.
//
// Amount carries no currency; entities hold the currency alongside it.
type Amount struct {
	d decimal.Decimal
}

// NewAmount normalizes d into an Amount.
func NewAmount(d decimal.Decimal) Amount { return Amount{d: Normalize(d)} }

// AmountFromInt returns an Amount for a whole number of major units.
func AmountFromInt(v int64) Amount { return NewAmount(decimal.NewFromInt(v)) }

// ZeroAmount returns 0.0000.
func ZeroAmount() Amount { return Amount{} }

// ParseAmount parses a decimal string such as "100", "-30.5" or "0.00005".
// Values with more than MaxAmountIntDigits integer digits or more than
// MaxFractionDigits fractional digits are rejected.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("types: parse amount %q: %w", s, err)
	}
	if err := checkBounds(d, MaxAmountIntDigits); err != nil {
		return Amount{}, fmt.Errorf("types: parse amount %q: %w", s, err)
	}
	return NewAmount(d), nil
}

// MustAmount is like ParseAmount but panics on error. Use for literals.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err.Error())
	}
	return a
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// Arithmetic

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return NewAmount(a.d.Add(b.d)) }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return NewAmount(a.d.Sub(b.d)) }

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{d: a.d.Neg()} }

// Abs returns |a|.
func (a Amount) Abs() Amount { return Amount{d: a.d.Abs()} }

// Mul returns a × d rounded to four digits.
func (a Amount) Mul(d decimal.Decimal) Amount { return NewAmount(a.d.Mul(d)) }

// Div returns a ÷ d rounded half away from zero to four digits.
// It panics if d is zero.
func (a Amount) Div(d decimal.Decimal) Amount { return Amount{d: a.d.DivRound(d, AmountScale)} }

// Comparison

// Cmp compares a and b: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Equal reports whether a and b represent the same quantity.
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool { return a.d.IsZero() }

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a.d.IsPositive() }

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a.d.IsNegative() }

// Formatting

// String returns the amount with exactly four fractional digits, e.g. "70.0000".
func (a Amount) String() string { return a.d.StringFixed(AmountScale) }

// MarshalJSON encodes the amount as a JSON string so no precision is lost.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("types: decode amount: %w", err)
	}
	if err := checkBounds(d, MaxAmountIntDigits); err != nil {
		return fmt.Errorf("types: decode amount: %w", err)
	}
	*a = NewAmount(d)
	return nil
}

// Sum adds amounts, normalizing after each addition.
func Sum(values ...Amount) Amount {
	var total Amount
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Rate is an exchange rate with exactly eight fractional digits.
type Rate struct {
	d decimal.Decimal
}

// NewRate normalizes d into a Rate.
func NewRate(d decimal.Decimal) Rate { return Rate{d: NormalizeRate(d)} }

// ParseRate parses a decimal string into a Rate.
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("types: parse rate %q: %w", s, err)
	}
	if err := checkBounds(d, MaxRateIntDigits); err != nil {
		return Rate{}, fmt.Errorf("types: parse rate %q: %w", s, err)
	}
	return NewRate(d), nil
}

// MustRate is like ParseRate but panics on error.
func MustRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// Decimal returns the underlying decimal value.
func (r Rate) Decimal() decimal.Decimal { return r.d }

// Equal reports whether r and o are the same rate.
func (r Rate) Equal(o Rate) bool { return r.d.Equal(o.d) }

// IsPositive reports whether r > 0.
func (r Rate) IsPositive() bool { return r.d.IsPositive() }

// String returns the rate with exactly eight fractional digits.
func (r Rate) String() string { return r.d.StringFixed(RateScale) }

// MarshalJSON encodes the rate as a JSON string.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("types: decode rate: %w", err)
	}
	if err := checkBounds(d, MaxRateIntDigits); err != nil {
		return fmt.Errorf("types: decode rate: %w", err)
	}
	*r = NewRate(d)
	return nil
}
