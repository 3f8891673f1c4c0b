package contracts

import (
	"math"
	"testing"
	"time"
)

func d(day int) time.Time {
	return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestSeriesTruncate(t *testing.T) {
	s := Series{
		{Date: d(1), Value: 1},
		{Date: d(2), Value: 2},
		{Date: d(5), Value: 5},
		{Date: d(8), Value: 8},
	}

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"before first", d(1).AddDate(0, 0, -1), 0},
		{"exact match included", d(5), 3},
		{"between dates", d(6), 3},
		{"after last", d(9), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Truncate(tt.asOf)
			if len(got) != tt.want {
				t.Errorf("Truncate(%s) len = %d, want %d", tt.asOf.Format("2006-01-02"), len(got), tt.want)
			}
		})
	}
}

func TestSeriesTruncateIgnoresTimeOfDay(t *testing.T) {
	s := Series{{Date: d(5), Value: 5}}

	asOf := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	if got := s.Truncate(asOf); len(got) != 1 {
		t.Errorf("Truncate with intraday timestamp dropped the same-day observation")
	}
}

func TestSeriesNormalize(t *testing.T) {
	s := Series{
		{Date: d(3), Value: 3},
		{Date: d(1), Value: 1},
		{Date: d(3), Value: 30}, // duplicate date, last value wins
		{Date: d(2), Value: 2},
	}

	got := s.Normalize()
	if len(got) != 3 {
		t.Fatalf("Normalize() len = %d, want 3", len(got))
	}

	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date) {
			t.Errorf("Normalize() not ascending at index %d", i)
		}
	}

	if v, ok := got.At(d(3)); !ok || v != 30 {
		t.Errorf("At(d3) = %v, %v; want 30, true", v, ok)
	}
}

func TestSeriesAtMissingDate(t *testing.T) {
	s := Series{{Date: d(1), Value: 1}}
	if _, ok := s.At(d(2)); ok {
		t.Error("At() should report missing date")
	}
}

func TestUniformWeights(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	w := UniformWeights(names)

	if len(w) != 4 {
		t.Fatalf("UniformWeights() len = %d, want 4", len(w))
	}

	if math.Abs(w.Sum()-1.0) > 1e-12 {
		t.Errorf("UniformWeights() sum = %v, want 1", w.Sum())
	}

	for _, name := range names {
		if w[name] != 0.25 {
			t.Errorf("weight[%s] = %v, want 0.25", name, w[name])
		}
	}
}
