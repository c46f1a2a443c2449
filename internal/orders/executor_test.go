package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/internal/scenario"
	"github.com/jwhan/trademate/pkg/logger"
)

type fakeBroker struct {
	placed   []kis.PlaceOrderRequest
	failAt   int // 1-based index of the call that fails, 0 = never
	rejectAt int // 1-based index of the call that returns Success=false
}

func (f *fakeBroker) PlaceOrder(_ context.Context, req kis.PlaceOrderRequest) (*kis.PlaceOrderResult, error) {
	call := len(f.placed) + 1
	if f.failAt != 0 && call == f.failAt {
		return nil, errors.New("network down")
	}
	f.placed = append(f.placed, req)
	if f.rejectAt != 0 && call == f.rejectAt {
		return &kis.PlaceOrderResult{Success: false, Message: "잔고 부족"}, nil
	}
	return &kis.PlaceOrderResult{Success: true, OrderNo: "0001", OrderTime: "090001"}, nil
}

type recordedAdd struct {
	symbol   string
	qty      int64
	price    float64
	scenario string
}

type fakeLedger struct {
	adds []recordedAdd
	err  error
}

func (f *fakeLedger) Add(symbol string, qty int64, price float64, scenarioName, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.adds = append(f.adds, recordedAdd{symbol, qty, price, scenarioName})
	return nil
}

func basicPlan(t *testing.T) *scenario.OrderPlan {
	t.Helper()
	plan, err := scenario.NewCompiler(scenario.DefaultDefinitions()).Compile(scenario.Request{
		Symbol:    "005930",
		TotalCash: 1000000,
		Scenario:  scenario.TypeBasic,
		Reason:    "반도체 반등",
	}, 70000)
	require.NoError(t, err)
	return plan
}

func TestExecutor_ExecutePlan(t *testing.T) {
	broker := &fakeBroker{}
	ledger := &fakeLedger{}
	e := NewExecutor(broker, ledger, nil, logger.NewNop())

	report, err := e.ExecutePlan(context.Background(), basicPlan(t))
	require.NoError(t, err)

	require.Len(t, report.Executed, 2)
	assert.False(t, report.Aborted)

	// Market tranche submitted first, then the limit tranche.
	assert.Equal(t, kis.OrderTypeMarket, broker.placed[0].Type)
	assert.Equal(t, kis.OrderTypeLimit, broker.placed[1].Type)
	assert.Equal(t, 67900.0, broker.placed[1].Price)

	// Ledger sees the snapshot price for the market fill and the limit
	// price for the limit fill.
	require.Len(t, ledger.adds, 2)
	assert.Equal(t, recordedAdd{"005930", 7, 70000, "basic"}, ledger.adds[0])
	assert.Equal(t, recordedAdd{"005930", 7, 67900, "basic"}, ledger.adds[1])
}

func TestExecutor_AbortsOnSubmitError(t *testing.T) {
	broker := &fakeBroker{failAt: 2}
	ledger := &fakeLedger{}
	e := NewExecutor(broker, ledger, nil, logger.NewNop())

	report, err := e.ExecutePlan(context.Background(), basicPlan(t))
	require.Error(t, err)

	assert.True(t, report.Aborted)
	// First order went through and was recorded; nothing rolled back.
	assert.Len(t, report.Executed, 1)
	assert.Len(t, ledger.adds, 1)
}

func TestExecutor_AbortsOnRejection(t *testing.T) {
	broker := &fakeBroker{rejectAt: 1}
	ledger := &fakeLedger{}
	e := NewExecutor(broker, ledger, nil, logger.NewNop())

	report, err := e.ExecutePlan(context.Background(), basicPlan(t))
	require.Error(t, err)

	assert.True(t, report.Aborted)
	assert.Equal(t, "잔고 부족", report.Error)
	assert.Empty(t, ledger.adds)
}

func TestExecutor_SkipsZeroQtyTranches(t *testing.T) {
	broker := &fakeBroker{}
	e := NewExecutor(broker, &fakeLedger{}, nil, logger.NewNop())

	// 10,000 cash at 70,000/share floors every tranche to zero.
	plan, err := scenario.NewCompiler(scenario.DefaultDefinitions()).Compile(scenario.Request{
		Symbol:    "005930",
		TotalCash: 10000,
		Scenario:  scenario.TypeBasic,
	}, 70000)
	require.NoError(t, err)

	report, err := e.ExecutePlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Empty(t, report.Executed)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, broker.placed)
}

func TestExecutor_ExecuteAllocation(t *testing.T) {
	broker := &fakeBroker{}
	ledger := &fakeLedger{}
	e := NewExecutor(broker, ledger, nil, logger.NewNop())

	results := []allocation.WeightResult{
		{Symbol: "005930", InitialBuyCash: 500000, DCACash: 500000, LimitPriceHint: 67900},
	}
	prices := map[string]float64{"005930": 70000}

	report, err := e.ExecuteAllocation(context.Background(), results, prices, "분할 매수")
	require.NoError(t, err)

	require.Len(t, report.Executed, 2)
	assert.Equal(t, kis.OrderTypeMarket, broker.placed[0].Type)
	assert.Equal(t, int64(7), broker.placed[0].Quantity)
	assert.Equal(t, kis.OrderTypeLimit, broker.placed[1].Type)
	assert.Equal(t, 67900.0, broker.placed[1].Price)

	require.Len(t, ledger.adds, 2)
	assert.Equal(t, recordedAdd{"005930", 7, 70000, "weights"}, ledger.adds[0])
	assert.Equal(t, recordedAdd{"005930", 7, 67900, "weights"}, ledger.adds[1])
}

func TestExecutor_ExecuteAllocationSkipsUnpricedSymbol(t *testing.T) {
	broker := &fakeBroker{}
	e := NewExecutor(broker, &fakeLedger{}, nil, logger.NewNop())

	results := []allocation.WeightResult{
		{Symbol: "999999", InitialBuyCash: 500000, DCACash: 500000, LimitPriceHint: 0},
	}

	report, err := e.ExecuteAllocation(context.Background(), results, map[string]float64{}, "")
	require.NoError(t, err)
	assert.Empty(t, report.Executed)
	assert.Equal(t, 2, report.Skipped)
}
