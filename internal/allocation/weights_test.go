package allocation

import (
	"math"
	"reflect"
	"testing"
)

func sumWeights(results []WeightResult) float64 {
	var total float64
	for _, r := range results {
		total += r.Weight
	}
	return total
}

func TestAllocate_EmptyItems(t *testing.T) {
	results := Allocate(Request{TotalCash: 1000000}, nil)
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d results", len(results))
	}
}

func TestAllocate_EqualWeights(t *testing.T) {
	req := Request{
		TotalCash: 1000000,
		Items: []PortfolioItem{
			{Symbol: "005930", Reason: "실적 개선"},
			{Symbol: "000660", Reason: "업황 회복"},
			{Symbol: "035420", Reason: "신사업"},
			{Symbol: "051910", Reason: "수주 확대"},
		},
		InitialBuyRatio: 0.5,
		DiscountRate:    0.03,
	}
	prices := map[string]float64{
		"005930": 70000,
		"000660": 120000,
		"035420": 200000,
		"051910": 400000,
	}

	results := Allocate(req, prices)

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, r := range results {
		if r.Weight != 0.25 {
			t.Errorf("%s weight = %v, want 0.25", r.Symbol, r.Weight)
		}
		if r.InitialBuyCash != 125000 {
			t.Errorf("%s initial_buy_cash = %v, want 125000", r.Symbol, r.InitialBuyCash)
		}
		if r.DCACash != 125000 {
			t.Errorf("%s dca_cash = %v, want 125000", r.Symbol, r.DCACash)
		}
	}
	if results[0].LimitPriceHint != 67900 {
		t.Errorf("limit hint = %v, want 67900", results[0].LimitPriceHint)
	}
}

func TestAllocate_KeywordBoost(t *testing.T) {
	req := Request{
		TotalCash: 1000000,
		Items: []PortfolioItem{
			{Symbol: "005930", Reason: "장기 보유 핵심 종목"},
			{Symbol: "000660", Reason: "단기 반등"},
			{Symbol: "035420", Reason: "단기 반등"},
		},
		InitialBuyRatio: 0.5,
	}

	results := Allocate(req, nil)

	if results[0].Weight <= results[1].Weight {
		t.Errorf("boosted weight %v should exceed unboosted %v",
			results[0].Weight, results[1].Weight)
	}
	if results[1].Weight != results[2].Weight {
		t.Errorf("unboosted weights differ: %v vs %v", results[1].Weight, results[2].Weight)
	}
	if s := sumWeights(results); math.Abs(s-1.0) > 1e-3 {
		t.Errorf("weights sum to %v, want 1.0 within rounding", s)
	}
}

func TestAllocate_ClipBand(t *testing.T) {
	// Two items: the boosted one would take 52.4% unclipped. Both get
	// clipped to 0.40 and renormalize back to 0.5 each.
	req := Request{
		TotalCash: 1000000,
		Items: []PortfolioItem{
			{Symbol: "005930", Reason: "최우선 매수"},
			{Symbol: "000660", Reason: "보조"},
		},
	}

	results := Allocate(req, nil)

	if results[0].Weight != 0.5 || results[1].Weight != 0.5 {
		t.Errorf("weights = %v/%v, want 0.5/0.5 after clip+renormalize",
			results[0].Weight, results[1].Weight)
	}
}

func TestAllocate_WeightsSumToOne(t *testing.T) {
	cases := [][]PortfolioItem{
		{{Symbol: "A", Reason: "x"}},
		{{Symbol: "A", Reason: "핵심"}, {Symbol: "B", Reason: "y"}},
		{{Symbol: "A", Reason: "장기"}, {Symbol: "B", Reason: "장기"}, {Symbol: "C", Reason: "z"}},
		{
			{Symbol: "A", Reason: "강한확신"}, {Symbol: "B", Reason: "b"},
			{Symbol: "C", Reason: "c"}, {Symbol: "D", Reason: "d"},
			{Symbol: "E", Reason: "e"}, {Symbol: "F", Reason: "f"},
		},
	}

	for i, items := range cases {
		results := Allocate(Request{TotalCash: 500000, Items: items}, nil)
		if s := sumWeights(results); math.Abs(s-1.0) > 1e-3 {
			t.Errorf("case %d: weights sum to %v, want 1.0 within rounding", i, s)
		}
	}
}

func TestAllocate_Idempotent(t *testing.T) {
	req := Request{
		TotalCash: 750000,
		Items: []PortfolioItem{
			{Symbol: "005930", Reason: "핵심"},
			{Symbol: "000660", Reason: "반등"},
		},
		InitialBuyRatio: 0.3,
		DiscountRate:    0.05,
	}
	prices := map[string]float64{"005930": 70000, "000660": 120000}

	first := Allocate(req, prices)
	second := Allocate(req, prices)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("allocation is not deterministic:\n%v\n%v", first, second)
	}
}

func TestAllocate_MissingPrice(t *testing.T) {
	req := Request{
		TotalCash:       100000,
		Items:           []PortfolioItem{{Symbol: "UNKNOWN", Reason: "x"}},
		InitialBuyRatio: 0.5,
		DiscountRate:    0.03,
	}

	results := Allocate(req, map[string]float64{})

	if results[0].LimitPriceHint != 0 {
		t.Errorf("limit hint for unknown price = %v, want 0", results[0].LimitPriceHint)
	}
	// Cash splits still computed from the weight
	if results[0].InitialBuyCash != 50000 {
		t.Errorf("initial_buy_cash = %v, want 50000", results[0].InitialBuyCash)
	}
}
