package commands

import (
	"github.com/spf13/cobra"
)

// holdingsCmd prints the valued portfolio.
var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "보유 내역 조회",
	Long: `보유 내역을 현재가로 평가해 출력합니다.

Example:
  go run ./cmd/trademate holdings`,
	RunE: runHoldings,
}

func init() {
	rootCmd.AddCommand(holdingsCmd)
}

func runHoldings(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	printJSON(a.valuer.Summarize(ctx))
	return nil
}
