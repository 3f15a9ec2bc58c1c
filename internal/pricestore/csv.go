package pricestore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"DCABench/internal/model"
)

// CSV column names produced by the metrics pipeline. Only date and
// close_price are required; the ratio columns are filled by ComputeRatios
// when absent.
const (
	colDate       = "date"
	colPrice      = "close_price"
	colRatioDCA   = "ratio_dca"
	colRatioTrend = "ratio_trend"
)

// LoadCSV reads a daily price series from a CSV file and builds a Store.
// Missing valuation ratios are computed on the spot so percentile-based
// strategies always see a full historical index series.
func LoadCSV(path string, trend model.TrendParams) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price csv: %w", err)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	store, err := New(records, trend)
	if err != nil {
		return nil, fmt.Errorf("build price store from %s: %w", path, err)
	}
	store.ComputeRatios()
	return store, nil
}

func parseCSV(r io.Reader) ([]model.DailyRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colDate, colPrice} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var records []model.DailyRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", row[cols[colDate]])
		if err != nil {
			return nil, fmt.Errorf("line %d: parse date: %w", line, err)
		}
		price, err := strconv.ParseFloat(row[cols[colPrice]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse price: %w", line, err)
		}

		rec := model.DailyRecord{Date: date, Price: price}
		rec.ShortRatio = optionalFloat(row, cols, colRatioDCA)
		rec.LongRatio = optionalFloat(row, cols, colRatioTrend)
		records = append(records, rec)
	}
	return records, nil
}

// optionalFloat returns 0 (meaning "unknown") for absent columns, empty
// cells, and unparseable values.
func optionalFloat(row []string, cols map[string]int, name string) float64 {
	i, ok := cols[name]
	if !ok || i >= len(row) || row[i] == "" {
		return 0
	}
	v, err := strconv.ParseFloat(row[i], 64)
	if err != nil {
		return 0
	}
	return v
}
