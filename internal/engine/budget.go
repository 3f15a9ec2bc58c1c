package engine

import (
	"time"

	"DCABench/internal/strategy"
)

// totalBudgetFor computes the period total budget once per run. Day-credited
// and budget-capped modes get a strictly day-proportional budget so partial
// months are pro-rated; month-credited and unlimited modes get one monthly
// budget per calendar month the run touches. For unlimited strategies the
// value is retained for reporting only and never enforced.
func totalBudgetFor(mode strategy.BudgetMode, monthlyBudget float64, durationDays int, start, end time.Time) float64 {
	switch mode {
	case strategy.BudgetFullMonthlyCredit, strategy.BudgetUnlimited:
		return float64(monthsSpanned(start, end)) * monthlyBudget
	default:
		return float64(durationDays) * monthlyBudget / strategy.DaysPerMonth
	}
}

// monthsSpanned counts every calendar month with at least one day inside
// [start, end]. A run starting on the last day of a month still counts that
// month in full.
func monthsSpanned(start, end time.Time) int {
	return (end.Year()*12 + int(end.Month())) - (start.Year()*12 + int(start.Month())) + 1
}

// monthlyCredit returns the cash credited at the month boundary falling on
// day d. Proportional-daily strategies get a slice covering exactly the days
// of d's month inside the run; month-credited strategies get the full
// monthly budget; capped and unlimited strategies are never credited.
func monthlyCredit(mode strategy.BudgetMode, monthlyBudget float64, d, start, end time.Time) float64 {
	switch mode {
	case strategy.BudgetProportionalDaily:
		return float64(daysOfMonthInRange(d, start, end)) * monthlyBudget / strategy.DaysPerMonth
	case strategy.BudgetFullMonthlyCredit:
		return monthlyBudget
	default:
		return 0
	}
}

// daysOfMonthInRange counts the days of d's calendar month that fall inside
// [start, end].
func daysOfMonthInRange(d, start, end time.Time) int {
	monthStart := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	lo := monthStart
	if start.After(lo) {
		lo = start
	}
	hi := monthEnd
	if end.Before(hi) {
		hi = end
	}
	if hi.Before(lo) {
		return 0
	}
	return daysBetween(lo, hi) + 1
}
