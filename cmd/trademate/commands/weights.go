package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwhan/trademate/internal/allocation"
	"github.com/jwhan/trademate/internal/orders"
)

// weightsCmd computes portfolio weights from the command line.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "포트폴리오 비중 계산",
	Long: `종목 목록에 대한 추천 비중과 주문 미리보기를 계산합니다.

--item 은 "종목코드:이유" 형식으로 반복 지정합니다.

Example:
  go run ./cmd/trademate weights --cash 10000000 --item 005930:핵심 --item 000660:HBM`,
	RunE: runWeights,
}

var (
	weightsCash     float64
	weightsItems    []string
	weightsBuyRatio float64
	weightsDiscount float64
	weightsPreview  bool
)

func init() {
	rootCmd.AddCommand(weightsCmd)

	weightsCmd.Flags().Float64Var(&weightsCash, "cash", 0, "총 투자 금액 (필수)")
	weightsCmd.Flags().StringArrayVar(&weightsItems, "item", nil, "종목코드:이유 (반복 지정)")
	weightsCmd.Flags().Float64Var(&weightsBuyRatio, "initial-buy-ratio", 0.5, "선매수 비율")
	weightsCmd.Flags().Float64Var(&weightsDiscount, "discount-rate", 0.03, "지정가 할인율")
	weightsCmd.Flags().BoolVar(&weightsPreview, "preview", false, "주문 수량 미리보기 포함")
	weightsCmd.MarkFlagRequired("cash")
	weightsCmd.MarkFlagRequired("item")
}

func runWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items := make([]allocation.PortfolioItem, 0, len(weightsItems))
	for _, raw := range weightsItems {
		symbol, reason, _ := strings.Cut(raw, ":")
		if symbol == "" {
			return fmt.Errorf("invalid --item %q, expected 종목코드:이유", raw)
		}
		items = append(items, allocation.PortfolioItem{Symbol: symbol, Reason: reason})
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, item.Symbol)
	}
	prices := a.quotes.PriceMap(ctx, symbols)

	results := allocation.Allocate(allocation.Request{
		TotalCash:       weightsCash,
		Items:           items,
		InitialBuyRatio: weightsBuyRatio,
		DiscountRate:    weightsDiscount,
	}, prices)

	printJSON(results)

	if weightsPreview {
		printJSON(orders.BuildPreview(results, prices))
	}
	return nil
}
