// Package money holds the decimal helpers every ledger calculation goes through.
// Amounts are never rounded mid-calculation; Round is for storage and output.
package money

import "github.com/shopspring/decimal"

var (
	// Zero is the additive identity.
	Zero = decimal.Zero
	// Hundred is used for percentage math.
	Hundred = decimal.NewFromInt(100)
	// Tolerance is the largest difference still treated as equal.
	Tolerance = decimal.RequireFromString("0.01")
)

// ApproxEqual reports whether |a-b| <= Tolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsSettled reports whether d is within Tolerance of zero.
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// Round rounds to two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Sum adds values starting from zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Parse reads a decimal string, e.g. from a CLI flag or a config value.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
