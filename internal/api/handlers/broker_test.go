package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/pkg/logger"
)

type stubTokens struct {
	token *kis.TokenInfo
	err   error
	key   string
}

func (s *stubTokens) IssueToken(_ context.Context, appKey, _ string) (*kis.TokenInfo, error) {
	s.key = appKey
	return s.token, s.err
}

type stubDaily struct {
	bars []kis.OHLCV
	err  error
}

func (s *stubDaily) DailyPrices(_ context.Context, _, _, _ string) ([]kis.OHLCV, error) {
	return s.bars, s.err
}

func TestIssueToken(t *testing.T) {
	tokens := &stubTokens{token: &kis.TokenInfo{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour)}}
	h := NewBrokerHandler(tokens, &stubDaily{}, logger.NewNop())

	rec := postJSON(t, h.IssueToken, TokenRequest{AppKey: "key1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "key1", tokens.key)

	var got kis.TokenInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.AccessToken)
}

func TestIssueToken_EmptyBodyUsesConfiguredCredentials(t *testing.T) {
	tokens := &stubTokens{token: &kis.TokenInfo{AccessToken: "abc"}}
	h := NewBrokerHandler(tokens, &stubDaily{}, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/kis/token", nil)
	rec := httptest.NewRecorder()
	h.IssueToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, tokens.key)
}

func TestIssueToken_FailureIs500(t *testing.T) {
	h := NewBrokerHandler(&stubTokens{err: errors.New("bad credentials")}, &stubDaily{}, logger.NewNop())

	rec := postJSON(t, h.IssueToken, TokenRequest{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetDailyQuotes(t *testing.T) {
	h := NewBrokerHandler(&stubTokens{}, &stubDaily{bars: []kis.OHLCV{{Date: "20260102", Close: 70000}}}, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/daily?symbol=005930", nil)
	rec := httptest.NewRecorder()
	h.GetDailyQuotes(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DailyQuotesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "005930", resp.Symbol)
	require.Len(t, resp.Bars, 1)
	assert.Equal(t, 70000.0, resp.Bars[0].Close)
}

func TestGetDailyQuotes_MissingSymbolIs400(t *testing.T) {
	h := NewBrokerHandler(&stubTokens{}, &stubDaily{}, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/daily", nil)
	rec := httptest.NewRecorder()
	h.GetDailyQuotes(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDailyQuotes_UpstreamFailureIs500(t *testing.T) {
	h := NewBrokerHandler(&stubTokens{}, &stubDaily{err: errors.New("kis down")}, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/daily?symbol=005930", nil)
	rec := httptest.NewRecorder()
	h.GetDailyQuotes(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
