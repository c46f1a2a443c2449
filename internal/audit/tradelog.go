// Package audit persists an append-only trade log in Postgres. The log is
// optional supporting history; the holdings file stays the source of truth
// for positions.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Trade is one confirmed buy, as recorded after broker acknowledgment.
type Trade struct {
	ID       int64     `json:"id"`
	Symbol   string    `json:"symbol"`
	Quantity int64     `json:"quantity"`
	Price    float64   `json:"price"`
	Scenario string    `json:"scenario"`
	Reason   string    `json:"reason"`
	OrderNo  string    `json:"order_no"`
	TradedAt time.Time `json:"traded_at"`
}

// TradeLog handles trade persistence
// ⭐ SSOT: 거래 이력 저장/조회는 여기서만
type TradeLog struct {
	pool *pgxpool.Pool
}

// NewTradeLog creates a trade log over the given pool.
func NewTradeLog(pool *pgxpool.Pool) *TradeLog {
	return &TradeLog{pool: pool}
}

// EnsureSchema creates the trades table if it does not exist.
func (t *TradeLog) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS trades (
			id BIGSERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			scenario TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			order_no TEXT NOT NULL DEFAULT '',
			traded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := t.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure trades table: %w", err)
	}
	return nil
}

// Record appends one trade.
func (t *TradeLog) Record(ctx context.Context, trade Trade) error {
	query := `
		INSERT INTO trades (symbol, quantity, price, scenario, reason, order_no)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.pool.Exec(ctx, query,
		trade.Symbol, trade.Quantity, trade.Price, trade.Scenario, trade.Reason, trade.OrderNo,
	)
	if err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}
	return nil
}

// Recent returns the most recent trades, newest first.
func (t *TradeLog) Recent(ctx context.Context, limit int) ([]Trade, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, symbol, quantity, price, scenario, reason, order_no, traded_at
		FROM trades
		ORDER BY traded_at DESC, id DESC
		LIMIT $1
	`

	rows, err := t.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]Trade, 0, limit)
	for rows.Next() {
		var tr Trade
		if err := rows.Scan(&tr.ID, &tr.Symbol, &tr.Quantity, &tr.Price, &tr.Scenario, &tr.Reason, &tr.OrderNo, &tr.TradedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, tr)
	}
	return trades, rows.Err()
}
