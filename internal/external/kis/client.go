package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jwhan/trademate/pkg/config"
	"github.com/jwhan/trademate/pkg/httputil"
	"github.com/jwhan/trademate/pkg/logger"
)

// Token TTLs. KIS reports its own expires_in but the client applies a local
// strategy instead: short keeps the token for a day, long for 90 days.
const (
	tokenTTLShort = 24 * time.Hour
	tokenTTLLong  = 90 * 24 * time.Hour
)

// Client handles communication with the KIS (한국투자증권) open API
// ⭐ SSOT: KIS API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.KISConfig

	// Token management
	accessToken string
	tokenExpiry time.Time
	tokenMu     sync.RWMutex
}

// NewClient creates a new KIS API client
func NewClient(cfg config.KISConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// Mock reports whether the client is in mock mode (synthesized responses,
// no network).
func (c *Client) Mock() bool { return c.cfg.Mock }

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// tokenTTL returns the configured local token lifetime, minus an hour of
// slack so a token is never used right at its edge.
func (c *Client) tokenTTL() time.Duration {
	ttl := tokenTTLShort
	if c.cfg.TokenTTL == "long" {
		ttl = tokenTTLLong
	}
	return ttl - time.Hour
}

// IssueToken issues (or returns the cached) access token. Credentials
// passed here override the configured ones for the rest of the client's
// lifetime, mirroring the runtime-override behavior of the token endpoint.
func (c *Client) IssueToken(ctx context.Context, appKey, appSecret string) (*TokenInfo, error) {
	c.tokenMu.Lock()
	if appKey != "" {
		c.cfg.AppKey = appKey
	}
	if appSecret != "" {
		c.cfg.AppSecret = appSecret
	}
	c.tokenMu.Unlock()

	token, expiry, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}
	return &TokenInfo{AccessToken: token, ExpiresAt: expiry}, nil
}

// getToken gets a valid access token, refreshing if necessary
func (c *Client) getToken(ctx context.Context) (string, time.Time, error) {
	c.tokenMu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token, expiry := c.accessToken, c.tokenExpiry
		c.tokenMu.RUnlock()
		return token, expiry, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// Double-check after acquiring write lock
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, c.tokenExpiry, nil
	}

	if c.cfg.Mock {
		c.accessToken = "MOCK_TOKEN"
		c.tokenExpiry = time.Now().Add(c.tokenTTL())
		return c.accessToken, c.tokenExpiry, nil
	}

	url := fmt.Sprintf("%s/oauth2/tokenP", c.cfg.BaseURL)
	body := fmt.Sprintf(`{"grant_type":"client_credentials","appkey":"%s","appsecret":"%s"}`,
		c.cfg.AppKey, c.cfg.AppSecret)

	resp, err := c.httpClient.Post(ctx, url, "application/json", strings.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	// Local TTL strategy; the API's expires_in is deliberately ignored.
	c.tokenExpiry = time.Now().Add(c.tokenTTL())

	c.logger.WithFields(map[string]interface{}{
		"ttl": c.cfg.TokenTTL,
	}).Info("KIS access token refreshed")

	return c.accessToken, c.tokenExpiry, nil
}

// request makes an authenticated request to KIS API
func (c *Client) request(ctx context.Context, method, path string, trID string, body io.Reader) (*http.Response, error) {
	token, _, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", c.cfg.CustType)

	return c.httpClient.Do(req)
}

// GetDailyPrices gets daily OHLCV bars for a stock. start/end are YYYYMMDD
// and may be empty for the API default window.
func (c *Client) GetDailyPrices(ctx context.Context, stockCode, start, end string) ([]OHLCV, error) {
	if c.cfg.Mock {
		return []OHLCV{mockBar(stockCode)}, nil
	}

	path := "/uapi/domestic-stock/v1/quotations/inquire-daily-price"
	trID := "FHKST01010400" // 국내주식 일별 시세

	params := fmt.Sprintf("?fid_cond_mrkt_div_code=J&fid_input_iscd=%s&fid_period_div_code=D&fid_org_adj_prc=0",
		stockCode)

	resp, err := c.request(ctx, http.MethodGet, path+params, trID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error status %d: %s", resp.StatusCode, string(body))
	}

	var result dailyPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.RtCd != "0" {
		return nil, fmt.Errorf("API error: %s - %s", result.MsgCd, result.Msg1)
	}

	bars := make([]OHLCV, 0, len(result.Output2))
	for _, out := range result.Output2 {
		if start != "" && out.Date < start {
			continue
		}
		if end != "" && out.Date > end {
			continue
		}
		bars = append(bars, OHLCV{
			Date:   out.Date,
			Open:   parseFloatSafe(out.Open),
			High:   parseFloatSafe(out.High),
			Low:    parseFloatSafe(out.Low),
			Close:  parseFloatSafe(out.Close),
			Volume: parseFloatSafe(out.Volume),
		})
	}

	return bars, nil
}

// CurrentPrice returns the latest close price for a stock. 0 means the
// price is unknown.
func (c *Client) CurrentPrice(ctx context.Context, stockCode string) (float64, error) {
	bars, err := c.GetDailyPrices(ctx, stockCode, "", "")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, nil
	}
	return bars[0].Close, nil
}

// mockBar synthesizes a deterministic daily bar from the stock code so
// tests and offline demos get stable prices.
func mockBar(stockCode string) OHLCV {
	price := 50000.0
	if len(stockCode) >= 2 {
		if n, err := strconv.Atoi(stockCode[len(stockCode)-2:]); err == nil {
			price += float64(n * 10)
		}
	}
	return OHLCV{
		Date:   time.Now().Format("20060102"),
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: 0,
	}
}

func parseFloatSafe(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
