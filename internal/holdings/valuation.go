package holdings

import (
	"context"
	"sort"

	"github.com/jwhan/trademate/internal/money"
	"github.com/jwhan/trademate/internal/sector"
)

// PriceSource is the quote capability the valuer needs. A source may return
// 0 to signal an unknown price.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Holding is one valued position for the portfolio view.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	AvgPrice     float64 `json:"avg_price"`
	Scenario     string  `json:"scenario,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	Sector       string  `json:"sector"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	Value        float64 `json:"value,omitempty"`
}

// Summary is the valued portfolio plus its sector distribution in percent
// of total value.
type Summary struct {
	Holdings           []Holding          `json:"holdings"`
	SectorDistribution map[string]float64 `json:"sector_distribution"`
}

// Valuer computes portfolio summaries from the ledger and live prices.
type Valuer struct {
	ledger  *Ledger
	prices  PriceSource
	sectors *sector.Lookup
}

// NewValuer creates a valuer.
func NewValuer(ledger *Ledger, prices PriceSource, sectors *sector.Lookup) *Valuer {
	return &Valuer{ledger: ledger, prices: prices, sectors: sectors}
}

// Summarize values every held position at its current price and computes
// the sector distribution. A failed or unknown price degrades to zero for
// that position; it never fails the whole summary.
func (v *Valuer) Summarize(ctx context.Context) Summary {
	entries := v.ledger.Load()

	symbols := make([]string, 0, len(entries))
	for symbol := range entries {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	out := Summary{
		Holdings:           make([]Holding, 0, len(entries)),
		SectorDistribution: map[string]float64{},
	}

	var totalValue float64
	sectorValues := map[string]float64{}

	for _, symbol := range symbols {
		entry := entries[symbol]

		price, err := v.prices.CurrentPrice(ctx, symbol)
		if err != nil || price < 0 {
			price = 0
		}

		value := price * float64(entry.Quantity)
		totalValue += value

		sec := v.sectors.Get(symbol)
		sectorValues[sec] += value

		out.Holdings = append(out.Holdings, Holding{
			Symbol:       symbol,
			Quantity:     entry.Quantity,
			AvgPrice:     entry.AvgPrice,
			Scenario:     entry.Scenario,
			Reason:       entry.Reason,
			Sector:       sec,
			CurrentPrice: money.Round2(price),
			Value:        money.Round2(value),
		})
	}

	for sec, value := range sectorValues {
		if totalValue > 0 {
			out.SectorDistribution[sec] = money.Round2(value / totalValue * 100)
		} else {
			out.SectorDistribution[sec] = 0.0
		}
	}

	return out
}
