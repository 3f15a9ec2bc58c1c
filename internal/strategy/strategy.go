// Package strategy implements the pluggable investment policies driven by
// the backtest engine. Each variant owns exactly the simulation-scoped state
// it needs; shared behavior lives in small helpers rather than a common base.
package strategy

import (
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
	"DCABench/internal/valuation"
)

// DaysPerMonth is the average calendar month length used for all
// daily-budget conversions.
const DaysPerMonth = 30.44

// BudgetMode declares how the engine accounts for a strategy's budget. The
// engine dispatches on this tag only, never on concrete strategy types.
type BudgetMode int

const (
	// BudgetProportionalDaily credits a pro-rated slice of the monthly
	// budget at each month boundary, covering exactly the days of that
	// month inside the run.
	BudgetProportionalDaily BudgetMode = iota
	// BudgetFullMonthlyCredit credits the full monthly budget at each
	// month boundary.
	BudgetFullMonthlyCredit
	// BudgetCapped credits nothing; trades are capped against the run's
	// total budget minus what has been invested so far.
	BudgetCapped
	// BudgetUnlimited passes every requested amount through uncapped.
	BudgetUnlimited
)

func (m BudgetMode) String() string {
	switch m {
	case BudgetProportionalDaily:
		return "proportional-daily"
	case BudgetFullMonthlyCredit:
		return "full-monthly-credit"
	case BudgetCapped:
		return "budget-capped"
	case BudgetUnlimited:
		return "unlimited"
	default:
		return "unknown"
	}
}

// Strategy is the decision policy contract. Initialize resets all internal
// state and is called once before a run. OnMonthStart fires exactly once per
// calendar month transition, including the first day of the run.
// UpdatePriceWindow is called with each day's realized or synthesized price
// before DecideInvestment. DecideInvestment returns the requested amount in
// currency units for the day; it may mutate internal state but must never
// look ahead.
type Strategy interface {
	Name() string
	Description() string
	BudgetMode() BudgetMode
	Initialize(store *pricestore.Store) error
	OnMonthStart(date time.Time)
	UpdatePriceWindow(price float64)
	DecideInvestment(date time.Time, price float64, rec model.DailyRecord) float64
}

// priceWindow is a bounded FIFO of recent prices.
type priceWindow struct {
	prices []float64
	max    int
}

func newPriceWindow(max int) *priceWindow {
	return &priceWindow{max: max}
}

func (w *priceWindow) push(p float64) {
	w.prices = append(w.prices, p)
	if len(w.prices) > w.max {
		w.prices = w.prices[len(w.prices)-w.max:]
	}
}

func (w *priceWindow) slice() []float64 { return w.prices }

func (w *priceWindow) peak() float64 {
	var max float64
	for _, p := range w.prices {
		if p > max {
			max = p
		}
	}
	return max
}

func (w *priceWindow) reset() { w.prices = nil }

// resolveIndex returns the day's valuation index: the precomputed one when
// the record carries ratios, otherwise computed from the rolling window.
func resolveIndex(calc *valuation.Calculator, date time.Time, rec model.DailyRecord, window *priceWindow) (float64, bool) {
	if v, ok := rec.ValuationIndex(); ok {
		return v, true
	}
	if calc == nil {
		return 0, false
	}
	return calc.Index(date, window.slice())
}
