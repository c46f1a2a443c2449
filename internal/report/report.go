// Package report builds textual investment reports over the current
// holdings. When a Gemini API key is configured the context is sent to the
// model; otherwise, and on any model failure, a plain summary of the same
// context is returned instead.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/jwhan/trademate/internal/holdings"
	"github.com/jwhan/trademate/pkg/logger"
)

// ErrSymbolNotHeld is returned when a single-symbol report is requested
// for a symbol absent from the ledger.
var ErrSymbolNotHeld = errors.New("symbol not found in holdings")

// Request selects the report scope. An empty Symbol covers the whole
// portfolio.
type Request struct {
	Symbol string `json:"symbol,omitempty"`
}

// Response wraps the generated report text.
type Response struct {
	Report string `json:"report"`
}

// TextModel is the slice of the Gemini client the generator uses.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// geminiModel adapts the genai client to TextModel.
type geminiModel struct {
	client *genai.Client
	model  string
}

func (g *geminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return strings.TrimSpace(text), nil
}

// Generator produces reports from the ledger and live prices.
type Generator struct {
	ledger *holdings.Ledger
	prices holdings.PriceSource
	model  TextModel
	logger *logger.Logger
}

// NewGenerator creates a generator. model may be nil to always produce the
// plain summary.
func NewGenerator(ledger *holdings.Ledger, prices holdings.PriceSource, model TextModel, log *logger.Logger) *Generator {
	return &Generator{ledger: ledger, prices: prices, model: model, logger: log}
}

// NewGeminiModel creates the Gemini-backed text model. Returns nil when the
// API key is empty.
func NewGeminiModel(ctx context.Context, apiKey, model string) (TextModel, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiModel{client: client, model: model}, nil
}

// Generate builds the report. Model failures degrade to the plain summary;
// only a bad request (unknown symbol) is an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Response, error) {
	entries := g.ledger.Load()

	symbols := make([]string, 0, len(entries))
	if req.Symbol != "" {
		if _, ok := entries[req.Symbol]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrSymbolNotHeld, req.Symbol)
		}
		symbols = append(symbols, req.Symbol)
	} else {
		for symbol := range entries {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
	}

	contextLines, summary := g.buildContext(ctx, entries, symbols)

	plain := strings.Join(contextLines, "\n") + "\n" + summary
	if g.model == nil {
		return &Response{Report: plain}, nil
	}

	prompt := "아래 투자 포트폴리오 정보를 바탕으로 투자 보고서를 작성해 주세요. " +
		"종목별 투자 이유와 시나리오를 요약하고 향후 전망과 리스크 요인도 함께 서술해 주세요.\n\n" +
		strings.Join(contextLines, "\n") + "\n\n" + summary

	text, err := g.model.GenerateText(ctx, prompt)
	if err != nil {
		g.logger.WithError(err).Warn("Report model failed, returning plain summary")
		return &Response{Report: plain}, nil
	}
	return &Response{Report: text}, nil
}

// buildContext renders one context line per symbol plus the total line.
// An unavailable price renders as 0 for that symbol.
func (g *Generator) buildContext(ctx context.Context, entries map[string]holdings.Entry, symbols []string) ([]string, string) {
	lines := make([]string, 0, len(symbols))
	var totalValue float64

	for _, symbol := range symbols {
		entry := entries[symbol]

		price, err := g.prices.CurrentPrice(ctx, symbol)
		if err != nil || price < 0 {
			price = 0
		}

		value := float64(entry.Quantity) * price
		totalValue += value

		lines = append(lines, fmt.Sprintf(
			"종목 %s: 보유수량 %d주, 평균매수가 %.2f원, 현재가 %.2f원, 시나리오 %s, 매매이유 %s, 평가금액 %.2f원",
			symbol, entry.Quantity, entry.AvgPrice, price, entry.Scenario, entry.Reason, value,
		))
	}

	return lines, fmt.Sprintf("총 평가금액: %.2f원", totalValue)
}
