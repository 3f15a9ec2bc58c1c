// Package recorder persists completed backtest runs for later comparison.
package recorder

import (
	"time"

	"DCABench/internal/model"
)

// RunSummary is a compact view of a persisted run, used by the /latest
// command and the CLI history listing.
type RunSummary struct {
	ID                  int64
	CreatedAt           time.Time
	StrategyName        string
	StartDate           time.Time
	EndDate             time.Time
	TotalInvested       float64
	FinalPortfolioValue float64
	TotalReturnPct      float64
}

// Recorder persists backtest results.
type Recorder interface {
	RecordRun(res *model.BacktestResult) (int64, error)
	LatestRuns(limit int) ([]RunSummary, error)
	Close() error
}
