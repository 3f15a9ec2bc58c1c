package model

import (
	"math"
	"time"
)

// DailyRecord is one day of price history. ShortRatio and LongRatio are the
// precomputed valuation ratios (price over 200-day DCA cost, price over
// power-law trend); a zero value means the ratio is unknown for that day.
// Records are immutable once loaded.
type DailyRecord struct {
	Date       time.Time
	Price      float64
	ShortRatio float64
	LongRatio  float64
	Simulated  bool
}

// ValuationIndex returns the composite valuation index (short ratio times
// long ratio). The second return value is false when either ratio is missing.
func (r DailyRecord) ValuationIndex() (float64, bool) {
	if r.ShortRatio <= 0 || r.LongRatio <= 0 {
		return 0, false
	}
	return r.ShortRatio * r.LongRatio, true
}

// TrendParams holds the fitted power-law trend model price(t) = a * t^b,
// where t is the age in whole days since Origin. Fitted externally and
// loaded as configuration; immutable for a simulation run.
type TrendParams struct {
	A      float64
	B      float64
	Origin time.Time
}

// Price returns the trend model price for the given date. Ages below one
// day are clamped to one so the model is defined for any date.
func (p TrendParams) Price(date time.Time) float64 {
	days := int(date.Sub(p.Origin).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return p.A * math.Pow(float64(days), p.B)
}
