package strategy

import (
	"math"
	"testing"
	"time"

	"DCABench/internal/model"
	"DCABench/internal/pricestore"
)

func TestPercentileTiered_Tiers(t *testing.T) {
	// Indexes 1..100 give simple boundaries: p10=10.9, p25=25.75, p50=50.5,
	// p75=75.25, p90=90.1.
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	s, err := NewPercentileTiered(300, DefaultTierMultipliers, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(storeWithIndexes(t, values)); err != nil {
		t.Fatal(err)
	}

	daily := 300 / DaysPerMonth
	date := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		index float64
		want  float64
	}{
		{5, daily * 5},     // below p10
		{15, daily * 2},    // p10..p25
		{30, daily * 1},    // p25..p50
		{60, 0},            // p50..p75
		{80, 0},            // p75..p90
		{99, 0},            // above p90
		{10.89, daily * 5}, // just under the p10 boundary
		{10.91, daily * 2}, // just over it
	}
	for _, tt := range tests {
		got := s.DecideInvestment(date, 10000, recWithIndex(tt.index))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("index %.2f: expected %.4f, got %.4f", tt.index, tt.want, got)
		}
	}

	// No index available and an empty rolling window: sit out.
	if got := s.DecideInvestment(date, 10000, model.DailyRecord{Price: 10000}); got != 0 {
		t.Errorf("expected 0 without a valuation index, got %.4f", got)
	}
}

func TestPercentileTiered_UnlimitedVariant(t *testing.T) {
	capped, _ := NewPercentileTiered(300, DefaultTierMultipliers, false)
	if capped.Name() != "percentile-tiered" || capped.BudgetMode() != BudgetCapped {
		t.Errorf("capped variant: %s / %s", capped.Name(), capped.BudgetMode())
	}
	unlimited, _ := NewPercentileTiered(300, DefaultTierMultipliers, true)
	if unlimited.Name() != "percentile-tiered-unlimited" || unlimited.BudgetMode() != BudgetUnlimited {
		t.Errorf("unlimited variant: %s / %s", unlimited.Name(), unlimited.BudgetMode())
	}
}

func TestPercentileTiered_Validation(t *testing.T) {
	if _, err := NewPercentileTiered(0, DefaultTierMultipliers, false); err == nil {
		t.Error("expected error for zero budget")
	}
	if _, err := NewPercentileTiered(300, TierMultipliers{1, -1, 0, 0, 0, 0}, false); err == nil {
		t.Error("expected error for negative multiplier")
	}
}

func TestPercentileTiered_InitializeNoHistory(t *testing.T) {
	s, _ := NewPercentileTiered(300, DefaultTierMultipliers, false)
	// Records without ratios carry no valuation indexes.
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.DailyRecord{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 110},
	}
	store, err := pricestore.New(records, testTrend)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(store); err == nil {
		t.Error("expected error when no historical valuation indexes exist")
	}
}
