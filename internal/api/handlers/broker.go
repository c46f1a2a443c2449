package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/pkg/logger"
)

// TokenIssuer issues brokerage access tokens.
type TokenIssuer interface {
	IssueToken(ctx context.Context, appKey, appSecret string) (*kis.TokenInfo, error)
}

// DailyQuoter serves daily price bars.
type DailyQuoter interface {
	DailyPrices(ctx context.Context, symbol, start, end string) ([]kis.OHLCV, error)
}

// BrokerHandler handles broker-facing API endpoints
// ⭐ SSOT: 증권사 API 핸들러는 이 구조체에서만
type BrokerHandler struct {
	tokens TokenIssuer
	quotes DailyQuoter
	logger *logger.Logger
}

// NewBrokerHandler creates a new broker handler
func NewBrokerHandler(tokens TokenIssuer, quotes DailyQuoter, log *logger.Logger) *BrokerHandler {
	return &BrokerHandler{tokens: tokens, quotes: quotes, logger: log}
}

// TokenRequest optionally overrides the configured app credentials.
type TokenRequest struct {
	AppKey    string `json:"app_key,omitempty"`
	AppSecret string `json:"app_secret,omitempty"`
}

// IssueToken issues (or returns the cached) brokerage access token
// POST /api/kis/token
func (h *BrokerHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Body is optional; an empty body uses the configured credentials.
	var req TokenRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	token, err := h.tokens.IssueToken(ctx, req.AppKey, req.AppSecret)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, token)
}

// DailyQuotesResponse wraps daily bars for one symbol.
type DailyQuotesResponse struct {
	Symbol string      `json:"symbol"`
	Bars   []kis.OHLCV `json:"bars"`
}

// GetDailyQuotes returns daily OHLCV bars
// GET /api/quotes/daily?symbol=005930&start=20260101&end=20260131
func (h *BrokerHandler) GetDailyQuotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Missing 'symbol' query parameter")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	bars, err := h.quotes.DailyPrices(ctx, symbol, start, end)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get daily quotes")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve daily quotes")
		return
	}

	respondJSON(w, http.StatusOK, DailyQuotesResponse{Symbol: symbol, Bars: bars})
}
