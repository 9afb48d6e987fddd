package domain

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is an operator-entered, non-negative decimal that may be blank.
// Blank, malformed and negative input all decode to an absent value, so a
// stored ledger never holds a NaN.
type Number struct {
	decimal.NullDecimal
}

// NumberOf wraps a present decimal value.
func NumberOf(d decimal.Decimal) Number {
	return Number{decimal.NullDecimal{Decimal: d, Valid: true}}
}

// ParseNumber reads s leniently. Anything that is not a finite,
// non-negative decimal yields an absent Number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return Number{}
	}
	return NumberOf(d)
}

// Or returns the value, or def when absent.
func (n Number) Or(def decimal.Decimal) decimal.Decimal {
	if !n.Valid {
		return def
	}
	return n.Decimal
}

// String renders the value, or "" when absent.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return n.Decimal.String()
}

// UnmarshalJSON accepts null, "", quoted decimals and bare JSON numbers.
// It never fails: unreadable input becomes an absent value.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			*n = Number{}
			return nil
		}
		*n = ParseNumber(s)
		return nil
	}
	*n = ParseNumber(string(b))
	return nil
}
