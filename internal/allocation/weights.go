// Package allocation turns a list of requested positions into normalized
// portfolio weights with initial-buy and DCA cash splits.
package allocation

import (
	"strings"

	"github.com/jwhan/trademate/internal/money"
)

// Weight band applied after the keyword boost. Renormalization may push the
// final weights slightly outside the band; that is accepted and not
// re-clipped.
const (
	minWeight = 0.10
	maxWeight = 0.40

	// keywordBoost is added to an item's base weight when its reason text
	// contains a high-conviction keyword.
	keywordBoost = 0.05
)

// boostKeywords are the reason-text fragments that mark a high-conviction
// position. Configuration data: extend the list, not the algorithm.
var boostKeywords = []string{"핵심", "최우선", "강한확신", "장기"}

// PortfolioItem is one requested position: a stock code plus the user's
// free-text rationale.
type PortfolioItem struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// Request carries the allocation inputs.
type Request struct {
	TotalCash       float64         `json:"total_cash"`
	Items           []PortfolioItem `json:"items"`
	InitialBuyRatio float64         `json:"initial_buy_ratio"` // portion bought at market now
	DiscountRate    float64         `json:"discount_rate"`     // limit hint discount off current price
}

// WeightResult is the allocation output for one symbol.
type WeightResult struct {
	Symbol         string  `json:"symbol"`
	Weight         float64 `json:"weight"`
	InitialBuyCash float64 `json:"initial_buy_cash"`
	DCACash        float64 `json:"dca_cash"`
	LimitPriceHint float64 `json:"limit_price_hint"`
}

// Allocate distributes equal base weights across items, boosts those whose
// reason contains a high-conviction keyword, normalizes, clips to the
// [0.10, 0.40] band and renormalizes once. Weights are rounded to 4
// decimals, monetary values to 2.
//
// Pure function of (req, prices): no error paths. A symbol missing from
// prices degrades to a zero limit hint.
func Allocate(req Request, prices map[string]float64) []WeightResult {
	n := len(req.Items)
	if n == 0 {
		return []WeightResult{}
	}

	base := 1.0 / float64(n)
	weights := make([]float64, n)
	for i, item := range req.Items {
		w := base
		if hasBoostKeyword(item.Reason) {
			w += keywordBoost
		}
		weights[i] = w
	}

	normalize(weights)

	// Clip to the band, then renormalize. The second pass can leave some
	// weights marginally outside the band; that matches the documented
	// two-pass behavior and is deliberately not iterated to convergence.
	for i, w := range weights {
		if w < minWeight {
			weights[i] = minWeight
		} else if w > maxWeight {
			weights[i] = maxWeight
		}
	}
	normalize(weights)

	results := make([]WeightResult, n)
	for i, item := range req.Items {
		w := weights[i]
		price := prices[item.Symbol]

		initialCash := req.TotalCash * w * req.InitialBuyRatio
		dcaCash := req.TotalCash * w * (1 - req.InitialBuyRatio)

		limitHint := 0.0
		if price > 0 {
			limitHint = price * (1 - req.DiscountRate)
		}

		results[i] = WeightResult{
			Symbol:         item.Symbol,
			Weight:         money.Round4(w),
			InitialBuyCash: money.Round2(initialCash),
			DCACash:        money.Round2(dcaCash),
			LimitPriceHint: money.Round2(limitHint),
		}
	}

	return results
}

// hasBoostKeyword reports whether the reason contains any boost keyword.
func hasBoostKeyword(reason string) bool {
	for _, k := range boostKeywords {
		if strings.Contains(reason, k) {
			return true
		}
	}
	return false
}

// normalize scales weights in place so they sum to 1.0.
func normalize(weights []float64) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for i := range weights {
		weights[i] /= total
	}
}
