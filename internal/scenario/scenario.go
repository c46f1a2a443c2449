// Package scenario compiles preset trading scenarios into concrete order
// tranches for a single stock.
//
// A scenario is a fixed template: it divides the available cash into one or
// more tranches, each executed either as a market order at the current price
// or as a limit order at a percentage offset from it. The templates are
// configuration data (see Definitions), so adding a scenario never touches
// the compiler.
package scenario

import (
	"errors"
	"fmt"

	"github.com/jwhan/trademate/internal/money"
)

// Type identifies a trading scenario.
type Type string

// The four supported scenarios.
const (
	// TypeBasic (기본형): 50% at market now, 50% limit 3% below.
	TypeBasic Type = "basic"
	// TypeConfident (확신형): 100% at market now.
	TypeConfident Type = "confident"
	// TypeChase (추격매수형): 30% at market, 30% limit 5% above, 40% limit
	// 10% above. Adds to the position if the price rises.
	TypeChase Type = "chase"
	// TypeConservative (보수형): 30% at market, 20% limit 3% below, 50%
	// limit 6% below. Adds to the position only if the price falls.
	TypeConservative Type = "conservative"
)

// Order types within a plan.
const (
	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
)

// Invalid-input errors. Callers must not retry without fixing the request.
var (
	ErrInvalidPrice    = errors.New("invalid current price")
	ErrUnknownScenario = errors.New("unknown scenario")
)

// Tranche assigns a fraction of the total cash to one order. A nil Offset
// means a market order at the current price; otherwise the tranche is a
// limit order at current_price * (1 + Offset).
type Tranche struct {
	Ratio  float64  `yaml:"ratio" json:"ratio"`
	Offset *float64 `yaml:"offset" json:"offset"`
}

// Definitions maps each scenario to its ordered tranche list.
type Definitions map[Type][]Tranche

func offset(v float64) *float64 { return &v }

// DefaultDefinitions returns the built-in scenario table.
func DefaultDefinitions() Definitions {
	return Definitions{
		TypeBasic: {
			{Ratio: 0.5},                      // 50% market
			{Ratio: 0.5, Offset: offset(-0.03)}, // 50% limit 3% below
		},
		TypeConfident: {
			{Ratio: 1.0}, // 100% market
		},
		TypeChase: {
			{Ratio: 0.3},                       // 30% market
			{Ratio: 0.3, Offset: offset(0.05)}, // 30% limit 5% above
			{Ratio: 0.4, Offset: offset(0.10)}, // 40% limit 10% above
		},
		TypeConservative: {
			{Ratio: 0.3},                        // 30% market
			{Ratio: 0.2, Offset: offset(-0.03)}, // 20% limit 3% below
			{Ratio: 0.5, Offset: offset(-0.06)}, // 50% limit 6% below
		},
	}
}

// Request is the user's scenario order planning input.
type Request struct {
	Symbol    string  `json:"symbol"`
	TotalCash float64 `json:"total_cash"`
	Scenario  Type    `json:"scenario"`
	Reason    string  `json:"reason"`
}

// OrderItem is a single order generated for a plan.
type OrderItem struct {
	OrderType string  `json:"order_type"`      // market or limit
	Qty       int64   `json:"qty"`
	Price     float64 `json:"price"`           // 0 for market orders, limit price otherwise
	Ratio     float64 `json:"ratio"`           // fraction of total cash
}

// OrderPlan is a fully computed plan ready for preview or execution. Plans
// are never mutated once returned; a new request produces a new plan.
type OrderPlan struct {
	Symbol    string      `json:"symbol"`
	Scenario  Type        `json:"scenario"`
	TotalCash float64     `json:"total_cash"`
	Price     float64     `json:"price"` // market price snapshot at plan time
	Reason    string      `json:"reason"`
	Orders    []OrderItem `json:"orders"`
}

// Compiler expands scenario definitions into order plans.
type Compiler struct {
	defs Definitions
}

// NewCompiler creates a compiler over the given definitions. Pass
// DefaultDefinitions() unless a YAML override is loaded.
func NewCompiler(defs Definitions) *Compiler {
	return &Compiler{defs: defs}
}

// Compile expands the request's scenario into concrete orders against the
// current market price.
//
// Fails with ErrInvalidPrice when currentPrice <= 0 and with
// ErrUnknownScenario when the scenario is not defined. Tranche order in the
// plan follows definition order.
func (c *Compiler) Compile(req Request, currentPrice float64) (*OrderPlan, error) {
	if currentPrice <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, currentPrice)
	}

	tranches, ok := c.defs[req.Scenario]
	if !ok || len(tranches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, req.Scenario)
	}

	orders := make([]OrderItem, 0, len(tranches))
	for _, tr := range tranches {
		cash := req.TotalCash * tr.Ratio

		var orderType string
		var planPrice, priceForQty float64
		if tr.Offset == nil {
			orderType = OrderTypeMarket
			planPrice = 0.0
			priceForQty = currentPrice
		} else {
			orderType = OrderTypeLimit
			planPrice = money.Round2(currentPrice * (1 + *tr.Offset))
			priceForQty = planPrice
		}

		orders = append(orders, OrderItem{
			OrderType: orderType,
			Qty:       money.FloorQty(cash, priceForQty),
			Price:     planPrice,
			Ratio:     tr.Ratio,
		})
	}

	return &OrderPlan{
		Symbol:    req.Symbol,
		Scenario:  req.Scenario,
		TotalCash: req.TotalCash,
		Price:     money.Round2(currentPrice),
		Reason:    req.Reason,
		Orders:    orders,
	}, nil
}
