package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/orders"
	"github.com/jwhan/trademate/internal/scenario"
	"github.com/jwhan/trademate/pkg/logger"
)

// CurrentPricer resolves the latest price for one symbol. 0 means unknown.
type CurrentPricer interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// PlanExecutor submits order plans and previews to the broker.
type PlanExecutor interface {
	ExecutePlan(ctx context.Context, plan *scenario.OrderPlan) (*orders.ExecutionReport, error)
	ExecutePreview(ctx context.Context, items []orders.PreviewItem, reason string) (*orders.ExecutionReport, error)
}

// TradingHandler handles order and scenario API endpoints
// ⭐ SSOT: 주문 API 핸들러는 이 구조체에서만
type TradingHandler struct {
	compiler *scenario.Compiler
	pricer   CurrentPricer
	prices   PriceMapper
	executor PlanExecutor
	logger   *logger.Logger
}

// NewTradingHandler creates a new trading handler
func NewTradingHandler(compiler *scenario.Compiler, pricer CurrentPricer, prices PriceMapper, executor PlanExecutor, log *logger.Logger) *TradingHandler {
	return &TradingHandler{
		compiler: compiler,
		pricer:   pricer,
		prices:   prices,
		executor: executor,
		logger:   log,
	}
}

// OrderPreviewRequest carries weight results to project into quantities.
type OrderPreviewRequest struct {
	Results []allocation.WeightResult `json:"results"`
}

// PreviewOrders projects weight results into share quantities
// POST /api/orders/preview
func (h *TradingHandler) PreviewOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OrderPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Results) == 0 {
		respondError(w, http.StatusBadRequest, "results must not be empty")
		return
	}

	symbols := make([]string, 0, len(req.Results))
	for _, res := range req.Results {
		symbols = append(symbols, res.Symbol)
	}

	preview := orders.BuildPreview(req.Results, h.prices.PriceMap(ctx, symbols))
	respondJSON(w, http.StatusOK, preview)
}

// OrderExecuteRequest carries previewed items to submit.
type OrderExecuteRequest struct {
	Items  []orders.PreviewItem `json:"items"`
	Reason string               `json:"reason,omitempty"`
}

// ExecuteOrders submits the previewed orders
// POST /api/orders/execute
func (h *TradingHandler) ExecuteOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OrderExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "items must not be empty")
		return
	}

	report, err := h.executor.ExecutePreview(ctx, req.Items, req.Reason)
	if err != nil {
		h.logger.WithError(err).Error("Order execution failed")
		// The report still carries what went through before the abort.
		respondJSON(w, http.StatusInternalServerError, report)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// PreviewScenario compiles a scenario order plan at the live price
// POST /api/scenario/preview
func (h *TradingHandler) PreviewScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scenario.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol must not be empty")
		return
	}
	if req.TotalCash <= 0 {
		respondError(w, http.StatusBadRequest, "total_cash must be positive")
		return
	}

	price, err := h.pricer.CurrentPrice(ctx, req.Symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Failed to get price")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve current price")
		return
	}

	plan, err := h.compiler.Compile(req, price)
	if err != nil {
		if errors.Is(err, scenario.ErrInvalidPrice) || errors.Is(err, scenario.ErrUnknownScenario) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to compile scenario")
		respondError(w, http.StatusInternalServerError, "Failed to compile scenario")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// ExecuteScenario submits a previously previewed scenario plan
// POST /api/scenario/execute
func (h *TradingHandler) ExecuteScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var plan scenario.OrderPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if plan.Symbol == "" || len(plan.Orders) == 0 {
		respondError(w, http.StatusBadRequest, "plan must carry a symbol and orders")
		return
	}

	report, err := h.executor.ExecutePlan(ctx, &plan)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", plan.Symbol).Error("Scenario execution failed")
		respondJSON(w, http.StatusInternalServerError, report)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
