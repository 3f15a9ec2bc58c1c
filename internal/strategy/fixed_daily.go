package strategy

import (
	"fmt"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
)

// FixedDaily invests the same amount every single day regardless of price.
// Budget is granted per day rather than accumulated, so there is no cash
// buffer to manage.
type FixedDaily struct {
	monthlyBudget float64
}

// NewFixedDaily creates the baseline daily DCA strategy.
func NewFixedDaily(monthlyBudget float64) (*FixedDaily, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("fixed-daily: monthly budget must be positive, got %.2f", monthlyBudget)
	}
	return &FixedDaily{monthlyBudget: monthlyBudget}, nil
}

func (s *FixedDaily) Name() string { return "fixed-daily" }

func (s *FixedDaily) Description() string {
	return fmt.Sprintf("buy %.2f every day (monthly budget / %.2f)", s.monthlyBudget/DaysPerMonth, DaysPerMonth)
}

func (s *FixedDaily) BudgetMode() BudgetMode { return BudgetProportionalDaily }

func (s *FixedDaily) Initialize(_ *pricestore.Store) error { return nil }

func (s *FixedDaily) OnMonthStart(_ time.Time) {}

func (s *FixedDaily) UpdatePriceWindow(_ float64) {}

func (s *FixedDaily) DecideInvestment(_ time.Time, _ float64, _ model.DailyRecord) float64 {
	return s.monthlyBudget / DaysPerMonth
}
