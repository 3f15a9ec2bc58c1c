package model

import "time"

// PortfolioState is a point-in-time snapshot taken by the engine. Immutable
// once created.
type PortfolioState struct {
	Date           time.Time
	CashBalance    float64
	BTCBalance     float64
	TotalInvested  float64
	PortfolioValue float64
}

// Transaction records a single executed buy. Created exactly once per trade.
type Transaction struct {
	Date           time.Time
	InvestedAmount float64
	BTCAmount      float64
	Price          float64
	ValuationIndex float64 // 0 when no index was available at purchase time
}

// BacktestResult aggregates everything a completed run produced.
//
// AnnualizedReturnPct is +Inf when the run is shorter than 365 days, meaning
// "not meaningful" rather than an actual return.
type BacktestResult struct {
	StrategyName        string
	StrategyDescription string
	StartDate           time.Time
	EndDate             time.Time
	DurationDays        int
	TotalBudget         float64
	TotalInvested       float64
	FinalBTCBalance     float64
	FinalPortfolioValue float64
	TotalReturnPct      float64
	AnnualizedReturnPct float64
	Snapshots           []PortfolioState
	Transactions        []Transaction
}
