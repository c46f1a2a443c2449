package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwhan/trademate/internal/api"
	"github.com/jwhan/trademate/internal/api/handlers"
	"github.com/jwhan/trademate/internal/report"
	"github.com/jwhan/trademate/internal/scheduler"
	"github.com/jwhan/trademate/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  POST /api/kis/token          - KIS 토큰 발급
  GET  /api/quotes/daily       - 일별 시세 조회
  POST /api/portfolio/weights  - 비중 계산
  POST /api/orders/preview     - 주문 미리보기
  POST /api/orders/execute     - 주문 실행
  POST /api/scenario/preview   - 시나리오 플랜 미리보기
  POST /api/scenario/execute   - 시나리오 플랜 실행
  GET  /api/holdings           - 보유 내역 조회
  POST /api/report             - 투자 보고서 생성

Example:
  go run ./cmd/trademate api
  go run ./cmd/trademate api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TradeMate API Server ===")

	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// Report model is optional; without a key the plain summary is served.
	model, err := report.NewGeminiModel(ctx, a.cfg.Report.GeminiAPIKey, a.cfg.Report.Model)
	if err != nil {
		return fmt.Errorf("init report model: %w", err)
	}
	reporter := report.NewGenerator(a.ledger, a.quotes, model, log)

	brokerHandler := handlers.NewBrokerHandler(a.kis, a.quotes, log)
	portfolioHandler := handlers.NewPortfolioHandler(a.quotes, a.valuer, reporter, log)
	tradingHandler := handlers.NewTradingHandler(a.compiler, a.quotes, a.quotes, a.executor, log)

	router := api.NewRouter(brokerHandler, portfolioHandler, tradingHandler, log)
	server := api.New(a.cfg, log, router)

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched = scheduler.New(log)
		job := jobs.NewValuationJob(a.valuer, a.cfg.Scheduler.ValuationSpec, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("add valuation job: %w", err)
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	if a.cfg.KIS.Mock {
		fmt.Println("   (mock mode: no brokerage calls will be made)")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
