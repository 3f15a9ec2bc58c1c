package engine

import (
	"math"
	"testing"
	"time"

	"DCABench/internal/strategy"
)

func TestMonthsSpanned(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{day(2020, 1, 1), day(2020, 1, 31), 1},
		{day(2020, 1, 1), day(2020, 12, 31), 12},
		{day(2020, 1, 1), day(2020, 12, 15), 12},
		// A run touching a month on its last day still counts that month.
		{day(2020, 1, 31), day(2020, 2, 1), 2},
		{day(2019, 12, 31), day(2020, 1, 1), 2},
		{day(2020, 6, 15), day(2021, 6, 14), 13},
	}
	for _, tt := range tests {
		if got := monthsSpanned(tt.start, tt.end); got != tt.want {
			t.Errorf("%s..%s: expected %d months, got %d",
				tt.start.Format("2006-01-02"), tt.end.Format("2006-01-02"), tt.want, got)
		}
	}
}

func TestDaysOfMonthInRange(t *testing.T) {
	start, end := day(2020, 1, 15), day(2020, 3, 10)
	tests := []struct {
		d    time.Time
		want int
	}{
		{day(2020, 1, 15), 17}, // Jan 15..31
		{day(2020, 2, 1), 29},  // full leap February
		{day(2020, 3, 1), 10},  // Mar 1..10
	}
	for _, tt := range tests {
		if got := daysOfMonthInRange(tt.d, start, end); got != tt.want {
			t.Errorf("%s: expected %d days, got %d", tt.d.Format("2006-01"), tt.want, got)
		}
	}
}

func TestTotalBudgetFor(t *testing.T) {
	start, end := day(2020, 1, 1), day(2020, 12, 31)

	proportional := totalBudgetFor(strategy.BudgetProportionalDaily, 300, 366, start, end)
	if want := 366 * 300 / strategy.DaysPerMonth; math.Abs(proportional-want) > 1e-9 {
		t.Errorf("proportional: expected %.4f, got %.4f", want, proportional)
	}

	capped := totalBudgetFor(strategy.BudgetCapped, 300, 366, start, end)
	if capped != proportional {
		t.Error("capped mode shares the day-proportional total")
	}

	monthly := totalBudgetFor(strategy.BudgetFullMonthlyCredit, 300, 366, start, end)
	if monthly != 3600 {
		t.Errorf("monthly: expected 3600, got %.4f", monthly)
	}

	unlimited := totalBudgetFor(strategy.BudgetUnlimited, 300, 366, start, end)
	if unlimited != 3600 {
		t.Errorf("unlimited keeps the nominal monthly total for reporting, got %.4f", unlimited)
	}
}

func TestMonthlyCredit(t *testing.T) {
	start, end := day(2020, 1, 15), day(2020, 3, 10)

	got := monthlyCredit(strategy.BudgetProportionalDaily, 300, day(2020, 2, 1), start, end)
	if want := 29 * 300 / strategy.DaysPerMonth; math.Abs(got-want) > 1e-9 {
		t.Errorf("proportional February: expected %.4f, got %.4f", want, got)
	}

	if got := monthlyCredit(strategy.BudgetFullMonthlyCredit, 300, day(2020, 2, 1), start, end); got != 300 {
		t.Errorf("full credit: expected 300, got %.4f", got)
	}
	if got := monthlyCredit(strategy.BudgetCapped, 300, day(2020, 2, 1), start, end); got != 0 {
		t.Errorf("capped mode is never credited, got %.4f", got)
	}
	if got := monthlyCredit(strategy.BudgetUnlimited, 300, day(2020, 2, 1), start, end); got != 0 {
		t.Errorf("unlimited mode is never credited, got %.4f", got)
	}
}
