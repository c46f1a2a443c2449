// Package market provides quote lookup over the brokerage API with a
// Naver Finance fallback.
package market

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/pkg/logger"
)

// brokerQuotes is the quote surface of the brokerage client.
type brokerQuotes interface {
	CurrentPrice(ctx context.Context, stockCode string) (float64, error)
	GetDailyPrices(ctx context.Context, stockCode, start, end string) ([]kis.OHLCV, error)
}

// Fallback is the backup price source. nil disables the fallback.
type Fallback interface {
	CurrentPrice(ctx context.Context, stockCode string) (float64, error)
}

// QuoteService serves current and daily prices. The brokerage API is the
// primary source; when it errors or knows no price, the fallback source is
// consulted. All brokerage calls go through a rate limiter because KIS
// throttles per app key.
type QuoteService struct {
	broker   brokerQuotes
	fallback Fallback
	limiter  *rate.Limiter
	logger   *logger.Logger
}

// NewQuoteService creates a quote service. fallback may be nil.
func NewQuoteService(broker brokerQuotes, fallback Fallback, log *logger.Logger) *QuoteService {
	return &QuoteService{
		broker: broker,
		// KIS 모의투자 기준 초당 2건
		limiter:  rate.NewLimiter(rate.Limit(2), 2),
		fallback: fallback,
		logger:   log,
	}
}

// CurrentPrice returns the latest price for a symbol. 0 means no source
// knows the price; that is not an error.
func (s *QuoteService) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	price, err := s.broker.CurrentPrice(ctx, symbol)
	if err == nil && price > 0 {
		return price, nil
	}

	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Broker quote failed, trying fallback")
	}

	if s.fallback == nil {
		if err != nil {
			return 0, fmt.Errorf("broker quote for %s: %w", symbol, err)
		}
		return 0, nil
	}

	fbPrice, fbErr := s.fallback.CurrentPrice(ctx, symbol)
	if fbErr != nil {
		s.logger.WithError(fbErr).WithField("symbol", symbol).Warn("Fallback quote failed")
		if err != nil {
			return 0, fmt.Errorf("broker quote for %s: %w", symbol, err)
		}
		return 0, nil
	}
	return fbPrice, nil
}

// DailyPrices returns daily OHLCV bars from the brokerage API. start/end
// are YYYYMMDD and may be empty.
func (s *QuoteService) DailyPrices(ctx context.Context, symbol, start, end string) ([]kis.OHLCV, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.broker.GetDailyPrices(ctx, symbol, start, end)
}

// PriceMap resolves current prices for a set of symbols. Unknown prices
// appear as 0 so callers can degrade per symbol.
func (s *QuoteService) PriceMap(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		price, err := s.CurrentPrice(ctx, symbol)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Warn("Price lookup failed")
			price = 0
		}
		prices[symbol] = price
	}
	return prices
}
