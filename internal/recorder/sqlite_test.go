package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"DCABench/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testResult(name string) *model.BacktestResult {
	return &model.BacktestResult{
		StrategyName:        name,
		StrategyDescription: "test run",
		StartDate:           day(2020, 1, 1),
		EndDate:             day(2020, 12, 31),
		DurationDays:        366,
		TotalBudget:         3600,
		TotalInvested:       3600,
		FinalBTCBalance:     0.25,
		FinalPortfolioValue: 5000,
		TotalReturnPct:      38.9,
		AnnualizedReturnPct: 38.7,
		Transactions: []model.Transaction{
			{Date: day(2020, 1, 1), InvestedAmount: 300, BTCAmount: 0.02, Price: 15000, ValuationIndex: 0.6},
		},
		Snapshots: []model.PortfolioState{
			{Date: day(2020, 1, 1), CashBalance: 0, BTCBalance: 0.02, TotalInvested: 300, PortfolioValue: 300},
		},
	}
}

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndLatestRuns(t *testing.T) {
	r := openTestRecorder(t)

	id1, err := r.RecordRun(testResult("fixed-daily"))
	if err != nil {
		t.Fatal(err)
	}
	id2, err := r.RecordRun(testResult("threshold"))
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Errorf("run ids should increase: %d then %d", id1, id2)
	}

	runs, err := r.LatestRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].StrategyName != "threshold" || runs[1].StrategyName != "fixed-daily" {
		t.Errorf("unexpected order: %s, %s", runs[0].StrategyName, runs[1].StrategyName)
	}
	if runs[0].TotalInvested != 3600 || runs[0].FinalPortfolioValue != 5000 {
		t.Errorf("unexpected summary: %+v", runs[0])
	}
	if !runs[0].StartDate.Equal(day(2020, 1, 1)) || !runs[0].EndDate.Equal(day(2020, 12, 31)) {
		t.Errorf("date round trip failed: %+v", runs[0])
	}
}

func TestRecordRun_InfAnnualizedStoredAsNull(t *testing.T) {
	r := openTestRecorder(t)

	res := testResult("short-run")
	res.AnnualizedReturnPct = math.Inf(1)
	runID, err := r.RecordRun(res)
	if err != nil {
		t.Fatal(err)
	}

	var annualized *float64
	err = r.db.QueryRow(
		`SELECT annualized_return_pct FROM backtest_runs WHERE id = ?`, runID,
	).Scan(&annualized)
	if err != nil {
		t.Fatal(err)
	}
	if annualized != nil {
		t.Errorf("+Inf sentinel should be stored as NULL, got %v", *annualized)
	}
}

func TestLatestRuns_Limit(t *testing.T) {
	r := openTestRecorder(t)
	for i := 0; i < 5; i++ {
		if _, err := r.RecordRun(testResult("fixed-daily")); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := r.LatestRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoopRecorder()
	if _, err := n.RecordRun(testResult("any")); err != nil {
		t.Errorf("noop record: %v", err)
	}
	runs, err := n.LatestRuns(10)
	if err != nil || len(runs) != 0 {
		t.Errorf("noop latest: %v, %d runs", err, len(runs))
	}
	if err := n.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
