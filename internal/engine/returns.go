package engine

import (
	"log"
	"math"

	"DCABench/internal/model"
)

// yearDays is the average year length used for annualization.
const yearDays = 365.25

// implausibleReturnPct guards the geometric formula against blowups on
// extreme final/invested ratios.
const implausibleReturnPct = 1_000_000

// finalizeReturns fills the summary return fields. Runs shorter than 365
// days get math.Inf(1) as the "annualized return is not meaningful"
// sentinel. A run with no investment reports zero value and zero return so
// unused budget never counts as performance.
func finalizeReturns(res *model.BacktestResult) {
	if res.TotalInvested <= 0 {
		res.FinalPortfolioValue = 0
		res.TotalReturnPct = 0
		if res.DurationDays < 365 {
			res.AnnualizedReturnPct = math.Inf(1)
		} else {
			res.AnnualizedReturnPct = 0
		}
		return
	}

	res.TotalReturnPct = (res.FinalPortfolioValue - res.TotalInvested) / res.TotalInvested * 100

	if res.DurationDays < 365 {
		res.AnnualizedReturnPct = math.Inf(1)
		return
	}

	growthRatio := res.FinalPortfolioValue / res.TotalInvested
	ann := (math.Pow(growthRatio, yearDays/float64(res.DurationDays)) - 1) * 100
	if math.IsNaN(ann) || math.IsInf(ann, 0) || ann > implausibleReturnPct {
		years := float64(res.DurationDays) / yearDays
		fallback := res.TotalReturnPct / years
		log.Printf("[WARN] geometric annualized return degenerate (%.4g), falling back to linear %.2f%%", ann, fallback)
		res.AnnualizedReturnPct = fallback
		return
	}
	res.AnnualizedReturnPct = ann
}
