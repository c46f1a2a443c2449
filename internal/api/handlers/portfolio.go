package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/holdings"
	"github.com/jwhan/trademate/internal/report"
	"github.com/jwhan/trademate/pkg/logger"
)

// PriceMapper resolves current prices for a set of symbols. Unknown prices
// come back as 0.
type PriceMapper interface {
	PriceMap(ctx context.Context, symbols []string) map[string]float64
}

// Summarizer values the current holdings.
type Summarizer interface {
	Summarize(ctx context.Context) holdings.Summary
}

// Reporter generates report text over the holdings.
type Reporter interface {
	Generate(ctx context.Context, req report.Request) (*report.Response, error)
}

// PortfolioHandler handles portfolio API endpoints
// ⭐ SSOT: 포트폴리오 API 핸들러는 이 구조체에서만
type PortfolioHandler struct {
	prices   PriceMapper
	valuer   Summarizer
	reporter Reporter
	logger   *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(prices PriceMapper, valuer Summarizer, reporter Reporter, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{prices: prices, valuer: valuer, reporter: reporter, logger: log}
}

// WeightsResponse wraps the allocation output.
type WeightsResponse struct {
	TotalCash float64                   `json:"total_cash"`
	Weights   []allocation.WeightResult `json:"weights"`
}

// ComputeWeights runs the weight allocator against live prices
// POST /api/portfolio/weights
func (h *PortfolioHandler) ComputeWeights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req allocation.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TotalCash <= 0 {
		respondError(w, http.StatusBadRequest, "total_cash must be positive")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	// 기본값: 50% 선매수, 3% 할인 지정가
	if req.InitialBuyRatio == 0 {
		req.InitialBuyRatio = 0.5
	}
	if req.DiscountRate == 0 {
		req.DiscountRate = 0.03
	}

	symbols := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		symbols = append(symbols, item.Symbol)
	}

	results := allocation.Allocate(req, h.prices.PriceMap(ctx, symbols))

	respondJSON(w, http.StatusOK, WeightsResponse{TotalCash: req.TotalCash, Weights: results})
}

// GetHoldings returns the valued portfolio with sector distribution
// GET /api/holdings
func (h *PortfolioHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.valuer.Summarize(r.Context()))
}

// GenerateReport produces an investment report
// POST /api/report
func (h *PortfolioHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req report.Request
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	resp, err := h.reporter.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, report.ErrSymbolNotHeld) {
			respondError(w, http.StatusNotFound, "Symbol not found in holdings")
			return
		}
		h.logger.WithError(err).Error("Failed to generate report")
		respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
