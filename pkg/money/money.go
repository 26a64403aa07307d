// Package money rounds and combines monetary amounts.
// Amounts travel as float64 through the domain and are stored with two decimals;
// every arithmetic step goes through decimal to avoid binary drift.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimals, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Sum adds the values and rounds the result.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

// Sub returns a - b rounded.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Mul returns amount * qty rounded.
func Mul(amount, qty float64) float64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(qty)).Round(2).InexactFloat64()
}

// Percent returns value percent of price, rounded.
func Percent(price, value float64) float64 {
	return decimal.NewFromFloat(price).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromFloat(value)).
		Round(2).
		InexactFloat64()
}

// Prorate returns amount * part / whole rounded. A non-positive whole yields 0.
func Prorate(amount float64, part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromInt(int64(part))).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2).
		InexactFloat64()
}

// NonNegative clamps v at zero.
func NonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
