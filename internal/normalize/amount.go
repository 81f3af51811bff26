// Package normalize converts raw bank-export cell text into canonical values:
// signed decimal amounts and calendar dates.
package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbols covers the symbols seen in typical bank exports.
// The set is configurable because it depends on the deployment's region.
const DefaultCurrencySymbols = "$£€¥"

// Amount parses raw cell text into a signed decimal.
//
// Rules, applied in order: currency symbols and thousands separators are
// stripped; a value wrapped in parentheses is negative (accounting notation);
// a trailing minus is negative (some exports print "123.45-"); an explicit
// leading sign is honored; a bare number is positive. A value with no digits,
// or with more than one decimal point, is a parse failure. The caller decides
// what to do with the failure; nothing is ever coerced to zero here.
func Amount(raw string, symbols string) (decimal.Decimal, error) {
	if symbols == "" {
		symbols = DefaultCurrencySymbols
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// Strip currency symbols and thousands separators.
	s = strings.Map(func(r rune) rune {
		if r == ',' || strings.ContainsRune(symbols, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	negative := false

	// Accounting notation: (12.34) means -12.34.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = s[1 : len(s)-1]
	}

	// Trailing minus: 123.45- means -123.45.
	if strings.HasSuffix(s, "-") && len(s) > 1 {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = strings.TrimPrefix(s, "-")
	case strings.HasPrefix(s, "+"):
		s = strings.TrimPrefix(s, "+")
	}

	s = strings.TrimSpace(s)

	digits := 0
	points := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		default:
			return decimal.Zero, fmt.Errorf("invalid character %q in amount %q", r, raw)
		}
	}
	if digits == 0 {
		return decimal.Zero, fmt.Errorf("no digits in amount %q", raw)
	}
	if points > 1 {
		return decimal.Zero, fmt.Errorf("multiple decimal points in amount %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
