package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Confident(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	plan, err := c.Compile(Request{
		Symbol:    "005930",
		TotalCash: 1000000,
		Scenario:  TypeConfident,
		Reason:    "실적 확신",
	}, 70000)
	require.NoError(t, err)

	require.Len(t, plan.Orders, 1)
	assert.Equal(t, OrderTypeMarket, plan.Orders[0].OrderType)
	assert.Equal(t, 1.0, plan.Orders[0].Ratio)
	assert.Equal(t, int64(14), plan.Orders[0].Qty) // floor(1,000,000/70,000)
	assert.Equal(t, 0.0, plan.Orders[0].Price)
	assert.Equal(t, 70000.0, plan.Price)
}

func TestCompile_Basic(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	plan, err := c.Compile(Request{
		Symbol:    "005930",
		TotalCash: 1000000,
		Scenario:  TypeBasic,
		Reason:    "기본 분할",
	}, 70000)
	require.NoError(t, err)
	require.Len(t, plan.Orders, 2)

	// 50% market: floor(500,000/70,000) = 7
	assert.Equal(t, OrderTypeMarket, plan.Orders[0].OrderType)
	assert.Equal(t, int64(7), plan.Orders[0].Qty)
	assert.Equal(t, 0.0, plan.Orders[0].Price)

	// 50% limit 3% below: 67,900, floor(500,000/67,900) = 7
	assert.Equal(t, OrderTypeLimit, plan.Orders[1].OrderType)
	assert.Equal(t, 67900.0, plan.Orders[1].Price)
	assert.Equal(t, int64(7), plan.Orders[1].Qty)
}

func TestCompile_Chase(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	plan, err := c.Compile(Request{
		Symbol:    "000660",
		TotalCash: 600000,
		Scenario:  TypeChase,
	}, 100000)
	require.NoError(t, err)
	require.Len(t, plan.Orders, 3)

	// Tranche order must follow definition order: market, +5%, +10%
	assert.Equal(t, OrderTypeMarket, plan.Orders[0].OrderType)
	assert.Equal(t, 105000.0, plan.Orders[1].Price)
	assert.Equal(t, 110000.0, plan.Orders[2].Price)

	assert.Equal(t, int64(1), plan.Orders[0].Qty) // floor(180,000/100,000)
	assert.Equal(t, int64(1), plan.Orders[1].Qty) // floor(180,000/105,000)
	assert.Equal(t, int64(2), plan.Orders[2].Qty) // floor(240,000/110,000)
}

func TestCompile_Conservative(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	plan, err := c.Compile(Request{
		Symbol:    "005380",
		TotalCash: 1000000,
		Scenario:  TypeConservative,
	}, 200000)
	require.NoError(t, err)
	require.Len(t, plan.Orders, 3)

	assert.Equal(t, OrderTypeMarket, plan.Orders[0].OrderType)
	assert.Equal(t, 194000.0, plan.Orders[1].Price) // -3%
	assert.Equal(t, 188000.0, plan.Orders[2].Price) // -6%
	assert.Equal(t, []float64{0.3, 0.2, 0.5}, []float64{
		plan.Orders[0].Ratio, plan.Orders[1].Ratio, plan.Orders[2].Ratio,
	})
}

func TestCompile_InvalidPrice(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	for _, price := range []float64{0, -1} {
		_, err := c.Compile(Request{Scenario: TypeBasic, TotalCash: 100000}, price)
		assert.True(t, errors.Is(err, ErrInvalidPrice), "price=%v: got %v", price, err)
	}
}

func TestCompile_UnknownScenario(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	_, err := c.Compile(Request{Scenario: "yolo", TotalCash: 100000}, 70000)
	assert.True(t, errors.Is(err, ErrUnknownScenario), "got %v", err)
}

func TestCompile_SnapshotPriceRounded(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())

	plan, err := c.Compile(Request{Scenario: TypeConfident, TotalCash: 100000}, 70000.456)
	require.NoError(t, err)
	assert.Equal(t, 70000.46, plan.Price)
}

func TestCompile_NewPlanPerRequest(t *testing.T) {
	c := NewCompiler(DefaultDefinitions())
	req := Request{Symbol: "005930", Scenario: TypeBasic, TotalCash: 100000}

	first, err := c.Compile(req, 70000)
	require.NoError(t, err)
	second, err := c.Compile(req, 70000)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}
