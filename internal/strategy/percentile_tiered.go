package strategy

import (
	"fmt"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
	"DCABench/internal/valuation"
)

// TierMultipliers holds the six per-tier budget multipliers, ordered from
// the cheapest tier (below the 10th percentile) to the most expensive
// (above the 90th).
type TierMultipliers [6]float64

// DefaultTierMultipliers skew the whole budget toward the cheap tiers and
// buy nothing above the median.
var DefaultTierMultipliers = TierMultipliers{5.0, 2.0, 1.0, 0, 0, 0}

// PercentileTiered classifies each day's valuation index into one of six
// empirical percentile tiers and requests dailyBudget times the tier's
// multiplier. Boundaries are computed once per run from the historical
// index series.
type PercentileTiered struct {
	monthlyBudget float64
	multipliers   TierMultipliers
	unlimited     bool

	calc       *valuation.Calculator
	window     *priceWindow
	boundaries [5]float64
}

// NewPercentileTiered creates the tiered strategy. All multipliers must be
// non-negative. With unlimited set, the engine does not cap requests against
// a period-proportional budget.
func NewPercentileTiered(monthlyBudget float64, multipliers TierMultipliers, unlimited bool) (*PercentileTiered, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("percentile-tiered: monthly budget must be positive, got %.2f", monthlyBudget)
	}
	for i, m := range multipliers {
		if m < 0 {
			return nil, fmt.Errorf("percentile-tiered: multiplier %d must be non-negative, got %.2f", i, m)
		}
	}
	return &PercentileTiered{
		monthlyBudget: monthlyBudget,
		multipliers:   multipliers,
		unlimited:     unlimited,
		window:        newPriceWindow(valuation.WindowSize),
	}, nil
}

func (s *PercentileTiered) Name() string {
	if s.unlimited {
		return "percentile-tiered-unlimited"
	}
	return "percentile-tiered"
}

func (s *PercentileTiered) Description() string {
	return fmt.Sprintf("tiered buying at historical valuation percentiles, multipliers %v", s.multipliers)
}

func (s *PercentileTiered) BudgetMode() BudgetMode {
	if s.unlimited {
		return BudgetUnlimited
	}
	return BudgetCapped
}

// Initialize computes the p10/p25/p50/p75/p90 boundaries from the store's
// historical valuation-index series and resets the rolling window.
func (s *PercentileTiered) Initialize(store *pricestore.Store) error {
	values := store.ValuationIndexes()
	bounds, ok := valuation.Percentiles(values, 0.10, 0.25, 0.50, 0.75, 0.90)
	if !ok {
		return fmt.Errorf("percentile-tiered: no historical valuation indexes available")
	}
	copy(s.boundaries[:], bounds)
	s.calc = valuation.NewCalculator(store.Trend())
	s.window.reset()
	return nil
}

func (s *PercentileTiered) OnMonthStart(_ time.Time) {}

func (s *PercentileTiered) UpdatePriceWindow(price float64) { s.window.push(price) }

func (s *PercentileTiered) DecideInvestment(date time.Time, _ float64, rec model.DailyRecord) float64 {
	idx, ok := resolveIndex(s.calc, date, rec, s.window)
	if !ok {
		return 0
	}
	daily := s.monthlyBudget / DaysPerMonth
	return daily * s.multipliers[s.tier(idx)]
}

// tier maps a valuation index to its percentile bucket: 0 below p10 up to 5
// above p90.
func (s *PercentileTiered) tier(idx float64) int {
	for i, bound := range s.boundaries {
		if idx < bound {
			return i
		}
	}
	return len(s.boundaries)
}
