// Package money parses user-entered amounts and formats them for a currency.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a form field into a positive decimal.
//
// It accepts dot (12.34) and comma (12,34) decimal separators and surrounding
// whitespace. A comma counts as a decimal separator only when it is the sole
// separator and is followed by one or two digits, so grouped input like
// "1,000" is rejected rather than read as 1. Signs, exponents and anything
// that is not a plain positive number are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		frac := len(s) - i - 1
		if strings.Count(s, ",") > 1 || strings.Contains(s, ".") || frac < 1 || frac > 2 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = s[:i] + "." + s[i+1:]
	}

	dots := 0
	digits := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r >= '0' && r <= '9':
			digits++
		default:
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if dots > 1 || digits == 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
