package report

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhan/trademate/internal/holdings"
	"github.com/jwhan/trademate/pkg/logger"
)

type stubPrices struct {
	prices map[string]float64
}

func (s *stubPrices) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	return s.prices[symbol], nil
}

type stubModel struct {
	text string
	err  error
}

func (s *stubModel) GenerateText(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func testLedger(t *testing.T) *holdings.Ledger {
	t.Helper()
	l := holdings.NewLedger(filepath.Join(t.TempDir(), "holdings.json"), logger.NewNop())
	require.NoError(t, l.Add("005930", 10, 70000, "basic", "반도체 반등"))
	require.NoError(t, l.Add("000660", 5, 120000, "confident", "HBM"))
	return l
}

func TestGenerate_PlainSummaryWithoutModel(t *testing.T) {
	g := NewGenerator(testLedger(t), &stubPrices{prices: map[string]float64{"005930": 71000, "000660": 125000}}, nil, logger.NewNop())

	resp, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)

	lines := strings.Split(resp.Report, "\n")
	require.Len(t, lines, 3)
	// Sorted by symbol.
	assert.Contains(t, lines[0], "종목 000660")
	assert.Contains(t, lines[1], "종목 005930")
	// 5*125000 + 10*71000
	assert.Equal(t, "총 평가금액: 1335000.00원", lines[2])
}

func TestGenerate_SingleSymbol(t *testing.T) {
	g := NewGenerator(testLedger(t), &stubPrices{prices: map[string]float64{"005930": 71000}}, nil, logger.NewNop())

	resp, err := g.Generate(context.Background(), Request{Symbol: "005930"})
	require.NoError(t, err)
	assert.Contains(t, resp.Report, "종목 005930")
	assert.NotContains(t, resp.Report, "000660")
}

func TestGenerate_UnknownSymbol(t *testing.T) {
	g := NewGenerator(testLedger(t), &stubPrices{}, nil, logger.NewNop())

	_, err := g.Generate(context.Background(), Request{Symbol: "999999"})
	assert.ErrorIs(t, err, ErrSymbolNotHeld)
}

func TestGenerate_ModelText(t *testing.T) {
	g := NewGenerator(testLedger(t), &stubPrices{}, &stubModel{text: "모범 답안"}, logger.NewNop())

	resp, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "모범 답안", resp.Report)
}

func TestGenerate_ModelFailureDegradesToPlain(t *testing.T) {
	g := NewGenerator(testLedger(t), &stubPrices{}, &stubModel{err: errors.New("quota")}, logger.NewNop())

	resp, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Contains(t, resp.Report, "총 평가금액")
}
