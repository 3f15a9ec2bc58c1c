package strategy

import (
	"fmt"
	"math"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
	"DCABench/internal/valuation"
)

// peakDays is the lookback for the drawdown-boost rolling peak.
const peakDays = 180

// PowerCurveOptions configures the continuous power-curve strategy.
type PowerCurveOptions struct {
	MinMultiplier float64
	MaxMultiplier float64
	Gamma         float64
	ALow          float64
	AHigh         float64
	DrawdownBoost bool
	MonthlyCap    bool
}

// DefaultPowerCurveOptions hold nothing back on deeply cheap days and sit
// out entirely above fair value.
var DefaultPowerCurveOptions = PowerCurveOptions{
	MinMultiplier: 0,
	MaxMultiplier: 10,
	Gamma:         2.0,
	ALow:          0.45,
	AHigh:         1.0,
	DrawdownBoost: true,
	MonthlyCap:    true,
}

// PowerCurve maps the valuation index onto a continuous cheapness score in
// [0, 1], raises it to a gamma exponent, and interpolates the daily-budget
// multiplier between its min and max. Optionally boosts the multiplier when
// the price is deep below its 180-day peak, and caps its own monthly spend
// independent of the engine's accounting.
type PowerCurve struct {
	monthlyBudget float64
	opts          PowerCurveOptions

	calc       *valuation.Calculator
	window     *priceWindow
	peakWindow *priceWindow
	monthSpent float64
}

// NewPowerCurve creates the continuous strategy. AHigh must exceed ALow and
// MaxMultiplier must be at least MinMultiplier.
func NewPowerCurve(monthlyBudget float64, opts PowerCurveOptions) (*PowerCurve, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("power-curve: monthly budget must be positive, got %.2f", monthlyBudget)
	}
	if opts.AHigh <= opts.ALow {
		return nil, fmt.Errorf("power-curve: a_high (%.2f) must be greater than a_low (%.2f)", opts.AHigh, opts.ALow)
	}
	if opts.MinMultiplier < 0 || opts.MaxMultiplier < opts.MinMultiplier {
		return nil, fmt.Errorf("power-curve: multipliers must satisfy 0 <= min <= max, got min=%.2f max=%.2f",
			opts.MinMultiplier, opts.MaxMultiplier)
	}
	if opts.Gamma <= 0 {
		return nil, fmt.Errorf("power-curve: gamma must be positive, got %.2f", opts.Gamma)
	}
	return &PowerCurve{
		monthlyBudget: monthlyBudget,
		opts:          opts,
		window:        newPriceWindow(valuation.WindowSize),
		peakWindow:    newPriceWindow(peakDays),
	}, nil
}

func (s *PowerCurve) Name() string { return "power-curve" }

func (s *PowerCurve) Description() string {
	return fmt.Sprintf("continuous multiplier %.1fx-%.1fx over index %.2f-%.2f, gamma %.1f",
		s.opts.MinMultiplier, s.opts.MaxMultiplier, s.opts.ALow, s.opts.AHigh, s.opts.Gamma)
}

func (s *PowerCurve) BudgetMode() BudgetMode { return BudgetCapped }

func (s *PowerCurve) Initialize(store *pricestore.Store) error {
	s.calc = valuation.NewCalculator(store.Trend())
	s.window.reset()
	s.peakWindow.reset()
	s.monthSpent = 0
	return nil
}

func (s *PowerCurve) OnMonthStart(_ time.Time) {
	s.monthSpent = 0
}

func (s *PowerCurve) UpdatePriceWindow(price float64) {
	s.window.push(price)
	s.peakWindow.push(price)
}

func (s *PowerCurve) DecideInvestment(date time.Time, price float64, rec model.DailyRecord) float64 {
	idx, ok := resolveIndex(s.calc, date, rec, s.window)
	if !ok {
		return 0
	}

	mult := s.opts.MinMultiplier +
		(s.opts.MaxMultiplier-s.opts.MinMultiplier)*math.Pow(s.cheapness(idx), s.opts.Gamma)

	if s.opts.DrawdownBoost {
		mult *= drawdownFactor(price, s.peakWindow.peak())
		if mult > s.opts.MaxMultiplier {
			mult = s.opts.MaxMultiplier
		}
	}

	buy := (s.monthlyBudget / DaysPerMonth) * mult
	if s.opts.MonthlyCap && s.monthSpent+buy > s.monthlyBudget {
		buy = s.monthlyBudget - s.monthSpent
		if buy < 0 {
			buy = 0
		}
	}
	s.monthSpent += buy
	return buy
}

// cheapness maps the valuation index into [0, 1]: 1 at or below ALow, 0 at
// or above AHigh, linear in between.
func (s *PowerCurve) cheapness(idx float64) float64 {
	switch {
	case idx <= s.opts.ALow:
		return 1
	case idx >= s.opts.AHigh:
		return 0
	default:
		return (s.opts.AHigh - idx) / (s.opts.AHigh - s.opts.ALow)
	}
}

// drawdownFactor boosts buying as the price falls further below the rolling
// peak: 20/35/50% drawdowns map to 1.2x/1.5x/2.0x.
func drawdownFactor(price, peak float64) float64 {
	if peak <= 0 {
		return 1.0
	}
	dd := (peak - price) / peak
	switch {
	case dd < 0.20:
		return 1.0
	case dd < 0.35:
		return 1.2
	case dd < 0.50:
		return 1.5
	default:
		return 2.0
	}
}
