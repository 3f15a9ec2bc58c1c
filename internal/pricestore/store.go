package pricestore

import (
	"fmt"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/valuation"
)

// Store holds the immutable daily price series plus the fitted trend
// parameters. It is built once at load time and is safe for concurrent
// reads; it must not be mutated after construction.
type Store struct {
	records []model.DailyRecord
	index   map[string]int
	trend   model.TrendParams
	last    time.Time
}

// New validates the record series (strictly ascending dates, positive
// prices, no duplicates) and builds the date lookup index.
func New(records []model.DailyRecord, trend model.TrendParams) (*Store, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("price series is empty")
	}
	index := make(map[string]int, len(records))
	var prev time.Time
	for i, r := range records {
		if r.Price <= 0 {
			return nil, fmt.Errorf("non-positive price %.4f on %s", r.Price, r.Date.Format("2006-01-02"))
		}
		d := midnightUTC(r.Date)
		if i > 0 && !d.After(prev) {
			return nil, fmt.Errorf("dates not strictly ascending at %s", d.Format("2006-01-02"))
		}
		records[i].Date = d
		index[dateKey(d)] = i
		prev = d
	}
	return &Store{
		records: records,
		index:   index,
		trend:   trend,
		last:    records[len(records)-1].Date,
	}, nil
}

// Record returns the historical record for the date, or a synthesized one
// (trend price, no ratios) when the date is strictly after the last
// historical date. The second return value is false for dates inside the
// historical span with no data, e.g. weekends.
func (s *Store) Record(date time.Time) (model.DailyRecord, bool) {
	d := midnightUTC(date)
	if d.After(s.last) {
		return model.DailyRecord{
			Date:      d,
			Price:     s.trend.Price(d),
			Simulated: true,
		}, true
	}
	i, ok := s.index[dateKey(d)]
	if !ok {
		return model.DailyRecord{}, false
	}
	return s.records[i], true
}

// FirstDate returns the earliest date in the loaded series.
func (s *Store) FirstDate() time.Time { return s.records[0].Date }

// LastHistoricalDate returns the last date present in the loaded series.
// Any later date is classified as simulated.
func (s *Store) LastHistoricalDate() time.Time { return s.last }

// Len returns the number of historical records.
func (s *Store) Len() int { return len(s.records) }

// Trend returns the fitted trend parameters.
func (s *Store) Trend() model.TrendParams { return s.trend }

// PriceFromTrend returns the power-law trend price for any date.
func (s *Store) PriceFromTrend(date time.Time) float64 {
	return s.trend.Price(midnightUTC(date))
}

// ValuationIndexes returns every precomputed composite valuation index
// across history, skipping records with a missing ratio. The slice is
// rebuilt from the stored records on each call.
func (s *Store) ValuationIndexes() []float64 {
	var out []float64
	for _, r := range s.records {
		if v, ok := r.ValuationIndex(); ok {
			out = append(out, v)
		}
	}
	return out
}

// ComputeRatios fills in missing valuation ratios for every record with at
// least WindowSize days of history behind it. Records that already carry
// ratios are left untouched, so series loaded with precomputed values stay
// bit-identical. Must be called before the store is shared across runs.
func (s *Store) ComputeRatios() {
	prices := make([]float64, len(s.records))
	for i, r := range s.records {
		prices[i] = r.Price
	}
	for i := range s.records {
		if i+1 < valuation.WindowSize {
			continue
		}
		r := &s.records[i]
		if r.ShortRatio <= 0 {
			if hm, ok := valuation.HarmonicMean(prices[i+1-valuation.WindowSize : i+1]); ok {
				r.ShortRatio = r.Price / hm
			}
		}
		if r.LongRatio <= 0 {
			if tp := s.trend.Price(r.Date); tp > 0 {
				r.LongRatio = r.Price / tp
			}
		}
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
