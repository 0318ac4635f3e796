package utils

import "github.com/shopspring/decimal"

// LineTotal is price times quantity computed in decimal, so 3 x 15.5 is
// exactly 46.5.
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}

// SumAmounts adds money amounts without accumulating float error.
func SumAmounts(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}
