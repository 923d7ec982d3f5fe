package models

import "github.com/shopspring/decimal"

// LineTotal returns price × quantity rounded to cents.
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// sumLines adds price × quantity for every line without intermediate float rounding.
func sumLines(n int, line func(i int) (float64, int)) (float64, int) {
	total := decimal.Zero
	count := 0
	for i := 0; i < n; i++ {
		price, qty := line(i)
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))))
		count += qty
	}
	return total.Round(2).InexactFloat64(), count
}
