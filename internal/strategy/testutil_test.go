package strategy

import (
	"testing"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
)

var testTrend = model.TrendParams{
	A:      9.7724e-18,
	B:      5.84,
	Origin: time.Date(2009, 1, 3, 0, 0, 0, 0, time.UTC),
}

// storeWithIndexes builds a store whose precomputed valuation indexes are
// exactly the given values (long ratio pinned to 1).
func storeWithIndexes(t *testing.T, values []float64) *pricestore.Store {
	t.Helper()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]model.DailyRecord, len(values))
	for i, v := range values {
		records[i] = model.DailyRecord{
			Date:       start.AddDate(0, 0, i),
			Price:      10000,
			ShortRatio: v,
			LongRatio:  1,
		}
	}
	s, err := pricestore.New(records, testTrend)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func recWithIndex(v float64) model.DailyRecord {
	return model.DailyRecord{Price: 10000, ShortRatio: v, LongRatio: 1}
}
