package commands

import (
	"context"
	"fmt"

	"github.com/jwhan/trademate/internal/audit"
	"github.com/jwhan/trademate/internal/external/kis"
	"github.com/jwhan/trademate/internal/external/naver"
	"github.com/jwhan/trademate/internal/holdings"
	"github.com/jwhan/trademate/internal/market"
	"github.com/jwhan/trademate/internal/orders"
	"github.com/jwhan/trademate/internal/planconfig"
	"github.com/jwhan/trademate/internal/scenario"
	"github.com/jwhan/trademate/internal/sector"
	"github.com/jwhan/trademate/pkg/config"
	"github.com/jwhan/trademate/pkg/database"
	"github.com/jwhan/trademate/pkg/httputil"
	"github.com/jwhan/trademate/pkg/logger"
)

// app bundles the wired services shared by the CLI commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	kis      *kis.Client
	quotes   *market.QuoteService
	ledger   *holdings.Ledger
	sectors  *sector.Lookup
	valuer   *holdings.Valuer
	compiler *scenario.Compiler
	executor *orders.Executor
	tradeLog *audit.TradeLog
	db       *database.DB
}

// newApp wires the common service graph. withDB controls whether the
// optional trade log database is connected.
func newApp(ctx context.Context, withDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	httpClient := httputil.New(log)

	kisClient := kis.NewClient(cfg.KIS, httpClient, log)

	var fallback market.Fallback
	if cfg.Naver.Enabled {
		fallback = naver.NewClient(httpClient, log, cfg.Naver.BaseURL)
	}

	quotes := market.NewQuoteService(kisClient, fallback, log)
	ledger := holdings.NewLedger(cfg.Holdings.File, log)

	// Scenario/sector overrides from the optional plan file.
	defs := scenario.DefaultDefinitions()
	sectors := sector.NewLookup()
	if cfg.Plan.File != "" {
		pc, err := planconfig.Load(cfg.Plan.File)
		if err != nil {
			return nil, fmt.Errorf("load plan config: %w", err)
		}
		defs = pc.Definitions()
		sectors = sector.NewLookupWith(pc.Sectors)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		kis:      kisClient,
		quotes:   quotes,
		ledger:   ledger,
		sectors:  sectors,
		valuer:   holdings.NewValuer(ledger, quotes, sectors),
		compiler: scenario.NewCompiler(defs),
	}

	if withDB && cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.tradeLog = audit.NewTradeLog(db.Pool)
		if err := a.tradeLog.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure trade log schema: %w", err)
		}
	}

	a.executor = orders.NewExecutor(kisClient, ledger, a.tradeLog, log)

	return a, nil
}

// close releases held resources.
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
