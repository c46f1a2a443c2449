// Package naver scrapes quote data from Naver Finance. It is the backup
// price source when the brokerage API has no quote for a symbol.
package naver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jwhan/trademate/pkg/httputil"
	"github.com/jwhan/trademate/pkg/logger"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Naver Finance client. baseURL may be empty for
// the default.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// CurrentPrice scrapes the latest traded price for a stock from the item
// page. Returns 0 with no error when the page has no readable price.
func (c *Client) CurrentPrice(ctx context.Context, stockCode string) (float64, error) {
	url := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, stockCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://finance.naver.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse HTML failed: %w", err)
	}

	price := parsePriceDoc(doc)
	if price == 0 {
		c.logger.WithField("stock_code", stockCode).Warn("No price found on Naver Finance page")
	}
	return price, nil
}

// parsePriceDoc pulls the current price out of the item page. The price
// lives in the first .no_today .blind element.
func parsePriceDoc(doc *goquery.Document) float64 {
	text := doc.Find(".rate_info .no_today .blind").First().Text()
	if text == "" {
		text = doc.Find(".no_today .blind").First().Text()
	}

	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}

	price, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return price
}
