package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwhan/trademate/internal/scenario"
)

// planCmd compiles (and optionally executes) a scenario order plan.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "시나리오 주문 플랜 생성",
	Long: `현재가를 조회해 선택한 시나리오의 주문 플랜을 생성합니다.

Scenarios:
  basic         50% 시장가 + 50% 지정가(-3%)
  confident     100% 시장가
  chase         30% 시장가 + 30% 지정가(+5%) + 40% 지정가(+10%)
  conservative  30% 시장가 + 20% 지정가(-3%) + 50% 지정가(-6%)

Example:
  go run ./cmd/trademate plan --symbol 005930 --cash 1000000 --scenario basic
  go run ./cmd/trademate plan --symbol 005930 --cash 1000000 --scenario confident --execute`,
	RunE: runPlan,
}

var (
	planSymbol   string
	planCash     float64
	planScenario string
	planReason   string
	planExecute  bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planSymbol, "symbol", "", "종목코드 (필수)")
	planCmd.Flags().Float64Var(&planCash, "cash", 0, "투입 금액 (필수)")
	planCmd.Flags().StringVar(&planScenario, "scenario", "basic", "시나리오 (basic|confident|chase|conservative)")
	planCmd.Flags().StringVar(&planReason, "reason", "", "매매 이유")
	planCmd.Flags().BoolVar(&planExecute, "execute", false, "플랜을 즉시 실행")
	planCmd.MarkFlagRequired("symbol")
	planCmd.MarkFlagRequired("cash")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, planExecute)
	if err != nil {
		return err
	}
	defer a.close()

	price, err := a.quotes.CurrentPrice(ctx, planSymbol)
	if err != nil {
		return fmt.Errorf("get current price: %w", err)
	}

	plan, err := a.compiler.Compile(scenario.Request{
		Symbol:    planSymbol,
		TotalCash: planCash,
		Scenario:  scenario.Type(planScenario),
		Reason:    planReason,
	}, price)
	if err != nil {
		return fmt.Errorf("compile plan: %w", err)
	}

	printJSON(plan)

	if !planExecute {
		return nil
	}

	report, err := a.executor.ExecutePlan(ctx, plan)
	if report != nil {
		printJSON(report)
	}
	if err != nil {
		return fmt.Errorf("execute plan: %w", err)
	}
	return nil
}

// printJSON writes indented JSON to stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
