package core

import (
	"math"
	"testing"
)

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		ppm  float64
		want int
	}{
		{-3, 1},
		{0, 1},
		{0.5, 1},
		{0.51, 2},
		{1.0, 2},
		{1.01, 3},
		{10.0, 3},
		{10.5, 4},
		{50.0, 4},
		{50.01, 5},
		{500.0, 5},
		{500.01, 6},
		{1e9, 6},
		{math.Inf(1), 6},
	}

	for _, tt := range tests {
		if got := Classify(tt.ppm); got != tt.want {
			t.Errorf("Classify(%v) = %d, want %d", tt.ppm, got, tt.want)
		}
	}
}

func TestClassify_AlwaysInRange(t *testing.T) {
	for v := -10.0; v <= 1000; v += 0.25 {
		got := Classify(v)
		if got < 1 || got > 6 {
			t.Fatalf("Classify(%v) = %d, want 1..6", v, got)
		}
	}
}

func TestTier_String(t *testing.T) {
	if TierVeryLow.String() != "very low" {
		t.Errorf("TierVeryLow = %q", TierVeryLow.String())
	}
	if TierExtreme.String() != "extremely dangerous" {
		t.Errorf("TierExtreme = %q", TierExtreme.String())
	}
	if Tier(42).String() != "unknown" {
		t.Errorf("Tier(42) = %q", Tier(42).String())
	}
}
