package main

import (
	"os"

	"github.com/jwhan/trademate/cmd/trademate/commands"
)

// main is the entry point for the TradeMate CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/trademate [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
