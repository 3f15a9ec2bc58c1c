// Package report renders backtest results as text for the CLI and for
// Telegram summaries.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"DCABench/internal/model"
)

// FormatResult renders a single run as a multi-line summary block.
func FormatResult(res *model.BacktestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "strategy:    %s\n", res.StrategyName)
	fmt.Fprintf(&b, "             %s\n", res.StrategyDescription)
	fmt.Fprintf(&b, "period:      %s to %s (%s days)\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
		humanize.Comma(int64(res.DurationDays)))
	fmt.Fprintf(&b, "budget:      $%s (%s mode)\n", money(res.TotalBudget), "period total")
	fmt.Fprintf(&b, "invested:    $%s over %s buys\n", money(res.TotalInvested),
		humanize.Comma(int64(len(res.Transactions))))
	fmt.Fprintf(&b, "btc:         %.8f\n", res.FinalBTCBalance)
	fmt.Fprintf(&b, "final value: $%s\n", money(res.FinalPortfolioValue))
	fmt.Fprintf(&b, "return:      %+.2f%% total, %s annualized\n",
		res.TotalReturnPct, annualized(res.AnnualizedReturnPct))
	return b.String()
}

// FormatComparison renders a side-by-side table for multiple runs, with a
// note when the simulated range extends past the historical series.
func FormatComparison(results []*model.BacktestResult, lastHistorical time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %14s %6s %14s %10s %12s\n",
		"strategy", "invested", "buys", "final value", "total", "annualized")
	b.WriteString(strings.Repeat("-", 90) + "\n")
	for _, res := range results {
		fmt.Fprintf(&b, "%-28s %14s %6d %14s %+9.2f%% %12s\n",
			res.StrategyName,
			"$"+money(res.TotalInvested),
			len(res.Transactions),
			"$"+money(res.FinalPortfolioValue),
			res.TotalReturnPct,
			annualized(res.AnnualizedReturnPct))
	}
	if len(results) > 0 && results[0].EndDate.After(lastHistorical) {
		fmt.Fprintf(&b, "\nnote: prices after %s are simulated from the power-law trend\n",
			lastHistorical.Format("2006-01-02"))
	}
	return b.String()
}

// money renders a currency amount with grouping and a fixed two decimals;
// trailing zeros are kept.
func money(v float64) string {
	return humanize.FormatFloat("#,###.00", v)
}

func annualized(v float64) string {
	if math.IsInf(v, 1) {
		return "n/a (<1y)"
	}
	return fmt.Sprintf("%+.2f%%", v)
}
