// Package holdings persists aggregated positions in a JSON file.
//
// Each entry carries the quantity, the volume-weighted average purchase
// price and the scenario/reason of the most recent purchase. The file is
// the sole owner of the data: every mutation is a full read-modify-rewrite,
// serialized by a process-local mutex. Concurrent writers in other
// processes still race (last write wins) — an accepted limitation for a
// single-operator demo.
package holdings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jwhan/trademate/internal/money"
	"github.com/jwhan/trademate/pkg/logger"
)

// Entry is one aggregated position.
type Entry struct {
	Quantity int64   `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
	Scenario string  `json:"scenario"`
	Reason   string  `json:"reason"`
}

// Ledger is the single-writer handle over the holdings file.
// ⭐ SSOT: 보유 내역 파일 접근은 이 타입을 통해서만
type Ledger struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewLedger creates a ledger over the given file path. The file does not
// need to exist yet.
func NewLedger(path string, log *logger.Logger) *Ledger {
	return &Ledger{path: path, logger: log}
}

// Load returns the full holdings map. A missing or unparsable file is
// treated as an empty ledger, never an error.
func (l *Ledger) Load() map[string]Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// load reads the file without taking the lock. Callers hold l.mu.
func (l *Ledger) load() map[string]Entry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return map[string]Entry{}
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.WithError(err).WithField("path", l.path).Warn("Holdings file unparsable, starting empty")
		return map[string]Entry{}
	}
	if entries == nil {
		return map[string]Entry{}
	}
	return entries
}

// save rewrites the whole file. The parent directory is created on first
// write. Callers hold l.mu.
func (l *Ledger) save(entries map[string]Entry) error {
	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}

// Add accumulates a confirmed buy into the ledger.
//
// For an existing symbol the quantity is added and the average price
// recomputed as the volume-weighted average; scenario and reason are
// overwritten with the incoming values — the ledger keeps only the most
// recent purchase's rationale, it is not an audit log.
//
// Calls with qty <= 0 or price <= 0 are a silent no-op. That is a
// deliberate permissive-merge policy relied upon by callers that
// pre-filter, not missing validation.
func (l *Ledger) Add(symbol string, qty int64, price float64, scenarioName, reason string) error {
	if qty <= 0 || price <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()

	if prev, ok := entries[symbol]; ok {
		entries[symbol] = Entry{
			Quantity: prev.Quantity + qty,
			AvgPrice: money.VWAP(prev.Quantity, prev.AvgPrice, qty, price),
			Scenario: scenarioName,
			Reason:   reason,
		}
	} else {
		entries[symbol] = Entry{
			Quantity: qty,
			AvgPrice: money.Round2(price),
			Scenario: scenarioName,
			Reason:   reason,
		}
	}

	if err := l.save(entries); err != nil {
		return err
	}

	l.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"qty":      qty,
		"price":    price,
		"scenario": scenarioName,
	}).Debug("Holding recorded")

	return nil
}
