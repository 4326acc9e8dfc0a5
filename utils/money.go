package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmount computes qty * rate * (1 + taxRate/100) rounded to 2 decimal
// places. All invoice arithmetic goes through decimals so totals summed
// over many lines carry no binary-float drift.
func LineAmount(qty int, rate, taxRate decimal.Decimal) decimal.Decimal {
	gross := rate.
		Mul(decimal.NewFromInt(int64(qty))).
		Mul(hundred.Add(taxRate)).
		Div(hundred)
	return gross.Round(2)
}

// SumAmounts totals a slice of line amounts.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Round2 rounds x to 2 decimal places (used only for non-money floats in
// DTO normalization; money never passes through float64).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
