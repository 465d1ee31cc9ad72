// Package money centralizes the numeric policy for monetary values:
// half-up rounding to 2 decimal places on everything published, and
// percentages computed from a 4-place half-up division.
package money

import "github.com/shopspring/decimal"

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Div2 divides a by b with half-up rounding to 2 decimal places.
// Division by zero returns zero.
func Div2(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	return a.DivRound(b, 2)
}

// Percent returns part/whole as a percentage in [0, 100+] computed the way
// summaries publish it: 4-place half-up division scaled by 100. A zero whole
// yields 0.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}

	f, _ := part.DivRound(whole, 4).Float64()

	return f * 100
}

// PercentChange returns the relative change from old to new as a 2-place
// percentage. A zero old value yields 0 if new is also zero, else 100.
func PercentChange(oldVal, newVal decimal.Decimal) decimal.Decimal {
	if oldVal.IsZero() {
		if newVal.IsZero() {
			return decimal.Zero
		}

		return decimal.NewFromInt(100)
	}

	return newVal.Sub(oldVal).DivRound(oldVal, 4).Mul(decimal.NewFromInt(100)).Round(2)
}

// Sum adds up all values without intermediate rounding.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}

	return total
}
