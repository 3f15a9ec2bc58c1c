package strategy

import (
	"fmt"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
)

// DefaultDayOfMonth is the purchase day used when none is configured.
const DefaultDayOfMonth = 1

// FixedMonthly invests the full monthly budget once per month on a target
// day. The engine credits a full month's budget at every month boundary;
// the strategy caps its own request at that budget.
type FixedMonthly struct {
	monthlyBudget float64
	dayOfMonth    int
}

// NewFixedMonthly creates a monthly lump-sum strategy. dayOfMonth must be in
// [1, 28] so the purchase day exists in every month.
func NewFixedMonthly(monthlyBudget float64, dayOfMonth int) (*FixedMonthly, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("fixed-monthly: monthly budget must be positive, got %.2f", monthlyBudget)
	}
	if dayOfMonth < 1 || dayOfMonth > 28 {
		return nil, fmt.Errorf("fixed-monthly: day of month must be in [1, 28], got %d", dayOfMonth)
	}
	return &FixedMonthly{monthlyBudget: monthlyBudget, dayOfMonth: dayOfMonth}, nil
}

func (s *FixedMonthly) Name() string { return "fixed-monthly" }

func (s *FixedMonthly) Description() string {
	return fmt.Sprintf("buy %.2f on day %d of every month", s.monthlyBudget, s.dayOfMonth)
}

func (s *FixedMonthly) BudgetMode() BudgetMode { return BudgetFullMonthlyCredit }

func (s *FixedMonthly) Initialize(_ *pricestore.Store) error { return nil }

func (s *FixedMonthly) OnMonthStart(_ time.Time) {}

func (s *FixedMonthly) UpdatePriceWindow(_ float64) {}

func (s *FixedMonthly) DecideInvestment(date time.Time, _ float64, _ model.DailyRecord) float64 {
	if date.Day() != s.dayOfMonth {
		return 0
	}
	return s.monthlyBudget
}
