// Package money provides a fixed-point representation of currency amounts.
//
// All amounts are integer minor units (cents, wei-scaled units, etc). Every
// operation is exact integer arithmetic — no floating point anywhere, which is
// what keeps the ledger's zero-sum invariant exact. Currency conversion is out
// of scope; a ledger is always denominated in a single currency and the caller
// owns knowing which one.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units. It is signed: negative amounts
// represent debt in net-position contexts.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if m < other {
		return m
	}
	return other
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m < 0 }

// String formats the amount as major.minor with two minor digits, e.g.
// Money(12345).String() == "123.45" and Money(-5).String() == "-0.05".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseMajor parses a decimal string like "12.30" or "-4" into minor units,
// assuming two minor digits. It rejects more than two fractional digits
// rather than rounding, so callers never lose precision silently.
func ParseMajor(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("money: %q has more than two fractional digits", s)
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	major, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	minor, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q", s)
	}
	v := major*100 + minor
	if neg {
		v = -v
	}
	return Money(v), nil
}

// SplitEqually divides total into n shares that sum exactly to total. The
// remainder of the integer division lands on the first shares, one minor unit
// each, so callers that pass participants in a fixed order get a
// deterministic distribution.
func SplitEqually(total Money, n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("money: cannot split among %d participants", n)
	}
	base := int64(total) / int64(n)
	rem := int64(total) % int64(n)
	if rem < 0 {
		// Keep the remainder non-negative so negative totals distribute
		// the same way positive ones do.
		base--
		rem += int64(n)
	}
	shares := make([]Money, n)
	for i := range shares {
		shares[i] = Money(base)
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares, nil
}
