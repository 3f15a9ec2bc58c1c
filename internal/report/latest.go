package report

import (
	"fmt"
	"strings"

	"DCABench/internal/recorder"
)

// FormatLatestRuns renders persisted run summaries, newest first.
func FormatLatestRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "no recorded runs yet"
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "#%d %s  %s..%s  invested $%s  value $%s  %+.2f%%\n",
			r.ID, r.StrategyName,
			r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"),
			money(r.TotalInvested), money(r.FinalPortfolioValue), r.TotalReturnPct)
	}
	return b.String()
}
