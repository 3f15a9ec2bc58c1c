package model

import (
	"math"
	"testing"
	"time"
)

func TestValuationIndex(t *testing.T) {
	r := DailyRecord{ShortRatio: 0.8, LongRatio: 0.5}
	idx, ok := r.ValuationIndex()
	if !ok || math.Abs(idx-0.4) > 1e-12 {
		t.Errorf("expected 0.4, got %.4f ok=%v", idx, ok)
	}

	for _, r := range []DailyRecord{
		{ShortRatio: 0, LongRatio: 0.5},
		{ShortRatio: 0.8, LongRatio: 0},
		{},
	} {
		if _, ok := r.ValuationIndex(); ok {
			t.Errorf("expected not ok for %+v", r)
		}
	}
}

func TestTrendPrice(t *testing.T) {
	origin := time.Date(2009, 1, 3, 0, 0, 0, 0, time.UTC)
	p := TrendParams{A: 9.7724e-18, B: 5.84, Origin: origin}

	// Ages below one day clamp to one, so the model is defined everywhere.
	atOrigin := p.Price(origin)
	before := p.Price(origin.AddDate(-1, 0, 0))
	if atOrigin != before {
		t.Errorf("pre-origin price should clamp to age 1: %.6g vs %.6g", before, atOrigin)
	}
	if math.Abs(atOrigin-9.7724e-18) > 1e-30 {
		t.Errorf("price at age 1 should equal a, got %.6g", atOrigin)
	}

	// Strictly increasing with age.
	p1 := p.Price(origin.AddDate(5, 0, 0))
	p2 := p.Price(origin.AddDate(10, 0, 0))
	if !(p2 > p1 && p1 > 0) {
		t.Errorf("trend should grow with age: %.4f then %.4f", p1, p2)
	}
}
