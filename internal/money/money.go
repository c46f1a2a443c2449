// Package money holds the shared quantity and rounding helpers used by the
// allocator, the scenario compiler and the holdings ledger. All monetary
// rounding in the system goes through here so the arithmetic is decimal,
// not binary floating point.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round4 rounds a ratio (e.g. a portfolio weight) to 4 decimal places.
func Round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

// FloorQty returns the whole number of shares that cash buys at price.
// Fractional shares are truncated toward zero; the unspent remainder is
// simply not deployed. A zero or negative price yields zero, never an error.
func FloorQty(cash, price float64) int64 {
	if price <= 0 || cash <= 0 {
		return 0
	}
	return decimal.NewFromFloat(cash).Div(decimal.NewFromFloat(price)).IntPart()
}

// VWAP returns the volume-weighted average price of an existing lot merged
// with a new fill, rounded to 2 decimal places.
func VWAP(oldQty int64, oldAvg float64, qty int64, price float64) float64 {
	totalQty := oldQty + qty
	if totalQty <= 0 {
		return Round2(price)
	}
	oldLeg := decimal.NewFromFloat(oldAvg).Mul(decimal.NewFromInt(oldQty))
	newLeg := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(qty))
	avg := oldLeg.Add(newLeg).Div(decimal.NewFromInt(totalQty))
	f, _ := avg.Round(2).Float64()
	return f
}
