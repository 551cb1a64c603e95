package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout dates are written in.
const DateFormat = "2006-01-02"

const readDateFormat = "2006-1-2" // lenient: accepts 2025-7-1

// Date is a calendar day with no time-of-day component.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date (2025-13-01 becomes 2026-01-01).
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// DateOf returns the UTC calendar day of t.
func DateOf(t time.Time) Date { return NewDate(t.UTC().Date()) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Between reports whether from <= d <= to.
func (d Date) Between(from, to Date) bool { return !d.Before(from) && !d.After(to) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return NewDate(d.y, d.m, d.d+n) }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.Time().Format(DateFormat) }

// ParseDate parses a date such as "2025-07-01" or "2025-7-1".
func ParseDate(s string) (Date, error) {
	on, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("types: invalid date %q want format %q: %w", s, DateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalJSON writes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a date from a JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
