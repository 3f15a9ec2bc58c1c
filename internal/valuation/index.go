package valuation

import (
	"time"

	"DCABench/internal/model"
)

// WindowSize is the number of daily prices needed to form the short-term
// ratio. It matches the 200-day DCA cost used when the ratios were
// precomputed, so on-the-fly values line up with historical ones.
const WindowSize = 200

// HarmonicMean returns N / sum(1/x). The second return value is false for an
// empty input or any non-positive price, which would make the mean undefined.
func HarmonicMean(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, x := range xs {
		if x <= 0 {
			return 0, false
		}
		sum += 1 / x
	}
	return float64(len(xs)) / sum, true
}

// Calculator computes the composite valuation index for dates that have no
// precomputed ratios, from a rolling window of realized or synthesized
// prices.
type Calculator struct {
	trend model.TrendParams
}

// NewCalculator creates a Calculator backed by the given trend model.
func NewCalculator(trend model.TrendParams) *Calculator {
	return &Calculator{trend: trend}
}

// Index computes shortRatio * longRatio for the given date, where the short
// ratio is currentPrice over the harmonic mean of the last WindowSize prices
// and the long ratio is currentPrice over the trend price. The current price
// is the last element of the window. Returns false when the window is too
// short or the mean is undefined.
func (c *Calculator) Index(date time.Time, window []float64) (float64, bool) {
	if len(window) < WindowSize {
		return 0, false
	}
	current := window[len(window)-1]
	if current <= 0 {
		return 0, false
	}
	hm, ok := HarmonicMean(window[len(window)-WindowSize:])
	if !ok {
		return 0, false
	}
	trendPrice := c.trend.Price(date)
	if trendPrice <= 0 {
		return 0, false
	}
	return (current / hm) * (current / trendPrice), true
}
