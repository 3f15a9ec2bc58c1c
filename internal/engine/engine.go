// Package engine drives the day-by-day backtest simulation: it feeds prices
// to a strategy, applies the strategy's budget-accounting mode, executes
// simulated trades, and accumulates the result.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
	"DCABench/internal/strategy"
	"DCABench/internal/valuation"
)

// snapshotInterval is the regular sampling cadence in days; trade days and
// the final day are always sampled as well.
const snapshotInterval = 7

// Engine runs deterministic single-pass simulations against a shared
// read-only price store. One Engine instance may serve sequential runs, but
// concurrent runs must each own their Engine and Strategy instances.
type Engine struct {
	store *pricestore.Store
}

// New creates an Engine backed by the given price store.
func New(store *pricestore.Store) *Engine {
	return &Engine{store: store}
}

// Run simulates the strategy over [start, end] inclusive and returns the
// accumulated result. The date range and budget are validated before any
// simulation state is touched. Cancellation is cooperative: ctx is checked
// between day iterations.
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy, start, end time.Time, monthlyBudget float64) (*model.BacktestResult, error) {
	start = midnightUTC(start)
	end = midnightUTC(end)
	if !start.Before(end) {
		return nil, fmt.Errorf("invalid date range: start %s must be before end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("monthly budget must be positive, got %.2f", monthlyBudget)
	}

	mode := strat.BudgetMode()
	durationDays := daysBetween(start, end) + 1
	totalBudget := totalBudgetFor(mode, monthlyBudget, durationDays, start, end)

	if err := strat.Initialize(e.store); err != nil {
		return nil, fmt.Errorf("initialize strategy %s: %w", strat.Name(), err)
	}

	res := &model.BacktestResult{
		StrategyName:        strat.Name(),
		StrategyDescription: strat.Description(),
		StartDate:           start,
		EndDate:             end,
		DurationDays:        durationDays,
		TotalBudget:         totalBudget,
	}

	var (
		cash           float64
		btc            float64
		invested       float64
		lastKnownPrice float64
		prevMonth      time.Month
		prevYear       int
		first          = true
	)

	// Ledger-side index resolution: days without precomputed ratios (the
	// trend-synthesized tail) get the index computed from the same rolling
	// window the strategies see.
	calc := valuation.NewCalculator(e.store.Trend())
	window := make([]float64, 0, valuation.WindowSize)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled at %s: %w", d.Format("2006-01-02"), err)
		}

		// Month boundaries fire even on days with no price data.
		if first || d.Month() != prevMonth || d.Year() != prevYear {
			strat.OnMonthStart(d)
			cash += monthlyCredit(mode, monthlyBudget, d, start, end)
			first = false
		}
		prevMonth, prevYear = d.Month(), d.Year()

		rec, ok := e.store.Record(d)
		if !ok || rec.Price <= 0 {
			continue
		}
		lastKnownPrice = rec.Price
		window = append(window, rec.Price)
		if len(window) > valuation.WindowSize {
			window = window[len(window)-valuation.WindowSize:]
		}

		strat.UpdatePriceWindow(rec.Price)
		requested := strat.DecideInvestment(d, rec.Price, rec)
		if requested < 0 {
			return nil, fmt.Errorf("strategy %s requested negative investment %.4f on %s",
				strat.Name(), requested, d.Format("2006-01-02"))
		}

		var executed float64
		switch mode {
		case strategy.BudgetProportionalDaily, strategy.BudgetFullMonthlyCredit:
			executed = min(requested, cash)
			cash -= executed
		case strategy.BudgetCapped:
			executed = min(requested, max(0, totalBudget-invested))
		case strategy.BudgetUnlimited:
			executed = requested
		}

		if executed > 0 {
			invested += executed
			btc += executed / rec.Price
			idx, hasIdx := rec.ValuationIndex()
			if !hasIdx {
				idx, _ = calc.Index(d, window)
			}
			res.Transactions = append(res.Transactions, model.Transaction{
				Date:           d,
				InvestedAmount: executed,
				BTCAmount:      executed / rec.Price,
				Price:          rec.Price,
				ValuationIndex: idx,
			})
		}

		if daysBetween(start, d)%snapshotInterval == 0 || executed > 0 || d.Equal(end) {
			res.Snapshots = append(res.Snapshots, model.PortfolioState{
				Date:           d,
				CashBalance:    cash,
				BTCBalance:     btc,
				TotalInvested:  invested,
				PortfolioValue: portfolioValue(mode, cash, btc, rec.Price),
			})
		}
	}

	res.TotalInvested = invested
	res.FinalBTCBalance = btc
	res.FinalPortfolioValue = portfolioValue(mode, cash, btc, lastKnownPrice)

	// Keep the endpoint visible even when the final day had no price data.
	if lastKnownPrice > 0 {
		if n := len(res.Snapshots); n == 0 || !res.Snapshots[n-1].Date.Equal(end) {
			res.Snapshots = append(res.Snapshots, model.PortfolioState{
				Date:           end,
				CashBalance:    cash,
				BTCBalance:     btc,
				TotalInvested:  invested,
				PortfolioValue: res.FinalPortfolioValue,
			})
		}
	}

	finalizeReturns(res)
	log.Printf("[INFO] backtest %s: %d days, invested %.2f of budget %.2f, final value %.2f",
		strat.Name(), durationDays, res.TotalInvested, totalBudget, res.FinalPortfolioValue)
	return res, nil
}

// portfolioValue applies the per-mode valuation rule: cash-balance-tracked
// strategies count remaining cash, budget-capped and unlimited strategies
// count holdings only so never-invested budget can't inflate returns.
func portfolioValue(mode strategy.BudgetMode, cash, btc, price float64) float64 {
	switch mode {
	case strategy.BudgetProportionalDaily, strategy.BudgetFullMonthlyCredit:
		return cash + btc*price
	default:
		return btc * price
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b; both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
