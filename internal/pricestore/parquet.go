package pricestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"DCABench/internal/model"
)

// snapshotRecord is the Parquet schema for a cached price series. Ratios are
// stored after ComputeRatios has run, so loading a snapshot skips both CSV
// parsing and the 200-day rolling recomputation.
type snapshotRecord struct {
	Date       int64   `parquet:"date,timestamp(millisecond)"` // Unix ms, UTC midnight
	Price      float64 `parquet:"close_price"`
	ShortRatio float64 `parquet:"ratio_dca"`
	LongRatio  float64 `parquet:"ratio_trend"`
}

// SaveSnapshot writes the store's full record set to a Parquet file.
func (s *Store) SaveSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	rows := make([]snapshotRecord, len(s.records))
	for i, r := range s.records {
		rows[i] = snapshotRecord{
			Date:       r.Date.UnixMilli(),
			Price:      r.Price,
			ShortRatio: r.ShortRatio,
			LongRatio:  r.LongRatio,
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a Parquet snapshot back into a Store.
func LoadSnapshot(path string, trend model.TrendParams) (*Store, error) {
	rows, err := parquet.ReadFile[snapshotRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	records := make([]model.DailyRecord, len(rows))
	for i, row := range rows {
		records[i] = model.DailyRecord{
			Date:       time.UnixMilli(row.Date).UTC(),
			Price:      row.Price,
			ShortRatio: row.ShortRatio,
			LongRatio:  row.LongRatio,
		}
	}
	store, err := New(records, trend)
	if err != nil {
		return nil, fmt.Errorf("build price store from snapshot %s: %w", path, err)
	}
	store.ComputeRatios()
	return store, nil
}
