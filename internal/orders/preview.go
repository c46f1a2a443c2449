// Package orders turns allocation and scenario output into floored share
// quantities and submits them to the broker.
package orders

import (
	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/money"
)

// PreviewItem is one symbol's projected orders against a live price.
type PreviewItem struct {
	Symbol         string  `json:"symbol"`
	Weight         float64 `json:"weight"`
	Price          float64 `json:"price"`
	QtyMarket      int64   `json:"qty_market"`
	QtyLimit       int64   `json:"qty_limit"`
	LimitPriceHint float64 `json:"limit_price_hint"`
	CashNeeded     float64 `json:"cash_needed"`
}

// Preview is the full projection for a weight allocation.
type Preview struct {
	Items           []PreviewItem `json:"items"`
	TotalCashNeeded float64       `json:"total_cash_needed"`
}

// BuildPreview projects weight-allocator output into share quantities.
// A zero or missing price yields quantity 0 for that leg, never an error.
func BuildPreview(results []allocation.WeightResult, prices map[string]float64) Preview {
	preview := Preview{Items: make([]PreviewItem, 0, len(results))}

	for _, r := range results {
		price := prices[r.Symbol]

		qtyMarket := money.FloorQty(r.InitialBuyCash, price)
		qtyLimit := money.FloorQty(r.DCACash, r.LimitPriceHint)
		cashNeeded := money.Round2(float64(qtyMarket)*price + float64(qtyLimit)*r.LimitPriceHint)

		preview.Items = append(preview.Items, PreviewItem{
			Symbol:         r.Symbol,
			Weight:         r.Weight,
			Price:          price,
			QtyMarket:      qtyMarket,
			QtyLimit:       qtyLimit,
			LimitPriceHint: r.LimitPriceHint,
			CashNeeded:     cashNeeded,
		})
		preview.TotalCashNeeded += cashNeeded
	}

	preview.TotalCashNeeded = money.Round2(preview.TotalCashNeeded)
	return preview
}
