package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trademate",
	Short: "TradeMate - KIS API 기반 매매 도우미",
	Long: `TradeMate Unified CLI

한국투자증권 Open API를 감싸는 데모 매매 백엔드.
비중 계산, 시나리오 주문 플랜, 보유 내역 관리를 제공합니다.

Usage:
  go run ./cmd/trademate [command]

Examples:
  go run ./cmd/trademate api
  go run ./cmd/trademate plan --symbol 005930 --cash 1000000 --scenario basic
  go run ./cmd/trademate holdings
  go run ./cmd/trademate weights --cash 1000000 --item 005930:핵심 --item 000660:HBM`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
