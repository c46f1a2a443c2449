package orders

import (
	"context"
	"fmt"

	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/audit"
	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/internal/scenario"
	"github.com/jwhan/trademate/pkg/logger"
)

// Broker is the order-submission surface of the brokerage client.
type Broker interface {
	PlaceOrder(ctx context.Context, req kis.PlaceOrderRequest) (*kis.PlaceOrderResult, error)
}

// Recorder folds a confirmed buy into the holdings ledger.
type Recorder interface {
	Add(symbol string, qty int64, price float64, scenarioName, reason string) error
}

// ExecutedOrder is one submitted order and the broker's acknowledgment.
type ExecutedOrder struct {
	Symbol    string               `json:"symbol"`
	OrderType string               `json:"order_type"`
	Quantity  int64                `json:"quantity"`
	Price     float64              `json:"price"`
	Result    *kis.PlaceOrderResult `json:"result"`
}

// ExecutionReport is the outcome of an execution run. Aborted is true when
// submission stopped partway; orders already accepted stay accepted, there
// is no rollback.
type ExecutionReport struct {
	Executed []ExecutedOrder `json:"executed"`
	Skipped  int             `json:"skipped"`
	Aborted  bool            `json:"aborted"`
	Error    string          `json:"error,omitempty"`
}

// Executor submits orders sequentially and records accepted buys.
type Executor struct {
	broker   Broker
	ledger   Recorder
	tradeLog *audit.TradeLog
	logger   *logger.Logger
}

// NewExecutor creates an executor. tradeLog may be nil to disable the
// database trade log.
func NewExecutor(broker Broker, ledger Recorder, tradeLog *audit.TradeLog, log *logger.Logger) *Executor {
	return &Executor{broker: broker, ledger: ledger, tradeLog: tradeLog, logger: log}
}

// ExecutePlan submits a scenario order plan. Orders go out one at a time in
// plan order; the first failed submission aborts the remainder. Zero
// quantity tranches are skipped, not submitted.
func (e *Executor) ExecutePlan(ctx context.Context, plan *scenario.OrderPlan) (*ExecutionReport, error) {
	report := &ExecutionReport{Executed: make([]ExecutedOrder, 0, len(plan.Orders))}

	for _, o := range plan.Orders {
		if o.Qty <= 0 {
			report.Skipped++
			continue
		}

		orderType := kis.OrderTypeLimit
		// Market tranches carry plan price 0; the fill is assumed at the
		// snapshot price for ledger purposes.
		fillPrice := o.Price
		if o.OrderType == scenario.OrderTypeMarket {
			orderType = kis.OrderTypeMarket
			fillPrice = plan.Price
		}

		result, err := e.broker.PlaceOrder(ctx, kis.PlaceOrderRequest{
			StockCode: plan.Symbol,
			Side:      kis.OrderSideBuy,
			Type:      orderType,
			Quantity:  o.Qty,
			Price:     o.Price,
		})
		if err != nil {
			report.Aborted = true
			report.Error = err.Error()
			return report, fmt.Errorf("submit %s x%d: %w", plan.Symbol, o.Qty, err)
		}

		report.Executed = append(report.Executed, ExecutedOrder{
			Symbol:    plan.Symbol,
			OrderType: o.OrderType,
			Quantity:  o.Qty,
			Price:     o.Price,
			Result:    result,
		})

		if !result.Success {
			report.Aborted = true
			report.Error = result.Message
			return report, fmt.Errorf("order rejected for %s: %s", plan.Symbol, result.Message)
		}

		if err := e.record(ctx, plan.Symbol, o.Qty, fillPrice, string(plan.Scenario), plan.Reason, result); err != nil {
			report.Aborted = true
			report.Error = err.Error()
			return report, err
		}
	}

	return report, nil
}

// ExecutePreview submits the market and limit orders of a preview. Per
// item the market leg goes first; zero-quantity legs are skipped. The
// market fill is recorded at the previewed price, the limit fill at the
// limit hint.
func (e *Executor) ExecutePreview(ctx context.Context, items []PreviewItem, reason string) (*ExecutionReport, error) {
	report := &ExecutionReport{}

	for _, item := range items {
		if item.QtyMarket > 0 {
			if err := e.submitOne(ctx, report, item.Symbol, kis.OrderTypeMarket, item.QtyMarket, 0, item.Price, "weights", reason); err != nil {
				return report, err
			}
		} else {
			report.Skipped++
		}

		if item.QtyLimit > 0 {
			if err := e.submitOne(ctx, report, item.Symbol, kis.OrderTypeLimit, item.QtyLimit, item.LimitPriceHint, item.LimitPriceHint, "weights", reason); err != nil {
				return report, err
			}
		} else {
			report.Skipped++
		}
	}

	return report, nil
}

// ExecuteAllocation projects weight results against live prices and submits
// the resulting orders.
func (e *Executor) ExecuteAllocation(ctx context.Context, results []allocation.WeightResult, prices map[string]float64, reason string) (*ExecutionReport, error) {
	preview := BuildPreview(results, prices)
	return e.ExecutePreview(ctx, preview.Items, reason)
}

func (e *Executor) submitOne(ctx context.Context, report *ExecutionReport, symbol string, orderType kis.OrderType, qty int64, orderPrice, fillPrice float64, scenarioName, reason string) error {
	result, err := e.broker.PlaceOrder(ctx, kis.PlaceOrderRequest{
		StockCode: symbol,
		Side:      kis.OrderSideBuy,
		Type:      orderType,
		Quantity:  qty,
		Price:     orderPrice,
	})
	if err != nil {
		report.Aborted = true
		report.Error = err.Error()
		return fmt.Errorf("submit %s x%d: %w", symbol, qty, err)
	}

	report.Executed = append(report.Executed, ExecutedOrder{
		Symbol:    symbol,
		OrderType: string(orderType),
		Quantity:  qty,
		Price:     orderPrice,
		Result:    result,
	})

	if !result.Success {
		report.Aborted = true
		report.Error = result.Message
		return fmt.Errorf("order rejected for %s: %s", symbol, result.Message)
	}

	return e.record(ctx, symbol, qty, fillPrice, scenarioName, reason, result)
}

// record folds an accepted buy into the ledger and the trade log. A trade
// log failure is logged but does not fail the execution; the ledger is the
// source of truth.
func (e *Executor) record(ctx context.Context, symbol string, qty int64, price float64, scenarioName, reason string, result *kis.PlaceOrderResult) error {
	if err := e.ledger.Add(symbol, qty, price, scenarioName, reason); err != nil {
		return fmt.Errorf("record holding %s: %w", symbol, err)
	}

	if e.tradeLog != nil {
		if err := e.tradeLog.Record(ctx, audit.Trade{
			Symbol:   symbol,
			Quantity: qty,
			Price:    price,
			Scenario: scenarioName,
			Reason:   reason,
			OrderNo:  result.OrderNo,
		}); err != nil {
			e.logger.WithError(err).WithField("symbol", symbol).Warn("Trade log write failed")
		}
	}

	return nil
}
