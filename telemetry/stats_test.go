package telemetry

import (
	"math"
	"testing"
)

func TestComputeDensityStats(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	mean, std, p10, p50, p90 := ComputeDensityStats(values)

	if math.Abs(mean-3) > 1e-9 {
		t.Errorf("mean = %v, want 3", mean)
	}
	// Sample standard deviation of 1..5.
	if math.Abs(std-math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(2.5))
	}
	if p50 != 3 {
		t.Errorf("p50 = %v, want 3", p50)
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("quantiles not ordered: %v %v %v", p10, p50, p90)
	}
	// Input must not be reordered.
	if values[0] != 5 {
		t.Error("ComputeDensityStats sorted its input in place")
	}
}

func TestComputeDensityStatsEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantStd  float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{7}, 7, 0},
		{"constant", []float64{2, 2, 2, 2}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, _, _, _ := ComputeDensityStats(tt.values)
			if mean != tt.wantMean || std != tt.wantStd {
				t.Errorf("mean/std = %v/%v, want %v/%v", mean, std, tt.wantMean, tt.wantStd)
			}
		})
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"too few", []float64{3}, 0},
		{"zero mean", []float64{0, 0, 0}, 0},
		{"constant", []float64{10, 10, 10, 10}, 0},
		{"spread", []float64{8, 12}, math.Sqrt(8) / 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoefficientOfVariation(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CoefficientOfVariation(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
