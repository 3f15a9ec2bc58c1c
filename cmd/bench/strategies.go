package main

import (
	"fmt"

	"DCABench/internal/config"
	"DCABench/internal/strategy"
)

// buildStrategies maps configured strategy specs onto concrete variants,
// filling in defaults for options the spec leaves unset.
func buildStrategies(cfg *config.Config) ([]strategy.Strategy, error) {
	budget := cfg.Backtest.MonthlyBudget
	out := make([]strategy.Strategy, 0, len(cfg.Strategies))
	for i, spec := range cfg.Strategies {
		s, err := buildStrategy(budget, spec)
		if err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func buildStrategy(budget float64, spec config.StrategySpec) (strategy.Strategy, error) {
	switch spec.Type {
	case "fixed-daily":
		return strategy.NewFixedDaily(budget)

	case "fixed-monthly":
		day := strategy.DefaultDayOfMonth
		if spec.DayOfMonth != nil {
			day = *spec.DayOfMonth
		}
		return strategy.NewFixedMonthly(budget, day)

	case "percentile-tiered":
		mult := strategy.DefaultTierMultipliers
		if spec.Multipliers != nil {
			for i, p := range []*float64{
				spec.Multipliers.P10, spec.Multipliers.P25, spec.Multipliers.P50,
				spec.Multipliers.P75, spec.Multipliers.P90, spec.Multipliers.P100,
			} {
				if p != nil {
					mult[i] = *p
				}
			}
		}
		return strategy.NewPercentileTiered(budget, mult, spec.Unlimited)

	case "threshold":
		threshold := strategy.DefaultThreshold
		if spec.Threshold != nil {
			threshold = *spec.Threshold
		}
		return strategy.NewThreshold(budget, threshold)

	case "power-curve":
		opts := strategy.DefaultPowerCurveOptions
		if spec.MinMultiplier != nil {
			opts.MinMultiplier = *spec.MinMultiplier
		}
		if spec.MaxMultiplier != nil {
			opts.MaxMultiplier = *spec.MaxMultiplier
		}
		if spec.Gamma != nil {
			opts.Gamma = *spec.Gamma
		}
		if spec.ALow != nil {
			opts.ALow = *spec.ALow
		}
		if spec.AHigh != nil {
			opts.AHigh = *spec.AHigh
		}
		if spec.DrawdownBoost != nil {
			opts.DrawdownBoost = *spec.DrawdownBoost
		}
		if spec.MonthlyCap != nil {
			opts.MonthlyCap = *spec.MonthlyCap
		}
		return strategy.NewPowerCurve(budget, opts)

	default:
		return nil, fmt.Errorf("unknown strategy type %q", spec.Type)
	}
}
