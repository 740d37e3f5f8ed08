// Package money wraps shopspring/decimal with the rounding rules used by
// EN16931 invoice documents: amounts are accumulated exactly and rounded to
// two fraction digits, half away from zero, only when formatted.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Exact parses a string into an arbitrary-precision decimal with no rounding.
// Used for quantities and intermediate accumulation.
func Exact(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustExact parses a decimal from string, panics on error. Test helper.
func MustExact(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders a monetary amount with exactly two fraction digits,
// rounding half away from zero ("10.00", never "10" or "10.0").
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent renders a fractional VAT rate as a percentage with two
// fraction digits (0.21 -> "21.00").
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// Sum sums a slice of decimals exactly.
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// ClampNonNegative returns d, or zero when d is negative. VAT rates below
// zero are treated as zero-rated.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// ParseOrZero parses a decimal from string, returning zero for empty or
// non-numeric input. Used when reading amounts from third-party documents.
func ParseOrZero(s string) decimal.Decimal {
	if s == "" {
		return Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	return d
}
