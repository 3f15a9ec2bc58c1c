package strategy

import (
	"fmt"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
	"DCABench/internal/valuation"
)

// DefaultThreshold is the valuation-index cutoff used when no threshold is
// configured. An explicitly configured 0 is honored and disables investment
// entirely; it is never treated as "missing".
const DefaultThreshold = 0.45

// Threshold accumulates the monthly budget into a cash buffer and fires the
// entire buffer at once on any day the valuation index drops below the
// threshold.
type Threshold struct {
	monthlyBudget float64
	threshold     float64

	calc   *valuation.Calculator
	window *priceWindow
	buffer float64
}

// NewThreshold creates the accumulate-then-fire strategy. threshold must be
// non-negative; exactly 0 means "never invest".
func NewThreshold(monthlyBudget, threshold float64) (*Threshold, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("threshold: monthly budget must be positive, got %.2f", monthlyBudget)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold: threshold must be non-negative, got %.4f", threshold)
	}
	return &Threshold{
		monthlyBudget: monthlyBudget,
		threshold:     threshold,
		window:        newPriceWindow(valuation.WindowSize),
	}, nil
}

func (s *Threshold) Name() string { return "threshold" }

func (s *Threshold) Description() string {
	if s.threshold == 0 {
		return "threshold 0: never invest"
	}
	return fmt.Sprintf("accumulate monthly budget, invest it all when valuation index < %.2f", s.threshold)
}

func (s *Threshold) BudgetMode() BudgetMode { return BudgetFullMonthlyCredit }

func (s *Threshold) Initialize(store *pricestore.Store) error {
	s.calc = valuation.NewCalculator(store.Trend())
	s.window.reset()
	s.buffer = 0
	return nil
}

func (s *Threshold) OnMonthStart(_ time.Time) {
	s.buffer += s.monthlyBudget
}

func (s *Threshold) UpdatePriceWindow(price float64) { s.window.push(price) }

func (s *Threshold) DecideInvestment(date time.Time, _ float64, rec model.DailyRecord) float64 {
	if s.threshold == 0 || s.buffer <= 0 {
		return 0
	}
	idx, ok := resolveIndex(s.calc, date, rec, s.window)
	if !ok || idx >= s.threshold {
		return 0
	}
	amount := s.buffer
	s.buffer = 0
	return amount
}
