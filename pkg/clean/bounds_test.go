package clean

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name      string
		vals      []float64
		factor    float64
		wantLower float64
		wantUpper float64
	}{
		{
			name:   "four values",
			vals:   []float64{1, 2, 3, 4},
			factor: 1.5,
			// Q1 = 1.75, Q3 = 3.25, IQR = 1.5
			wantLower: -0.5,
			wantUpper: 5.5,
		},
		{
			name:   "interpolated quartiles",
			vals:   []float64{1, 3, 34, 100},
			factor: 1.5,
			// Q1 = 2.5, Q3 = 50.5, IQR = 48
			wantLower: -69.5,
			wantUpper: 122.5,
		},
		{
			name:   "five values exact ranks",
			vals:   []float64{1, 2, 3, 4, 100},
			factor: 1.5,
			// Q1 = 2, Q3 = 4, IQR = 2
			wantLower: -1,
			wantUpper: 7,
		},
		{
			name:      "single value collapses",
			vals:      []float64{5},
			factor:    1.5,
			wantLower: 5,
			wantUpper: 5,
		},
		{
			name:   "unsorted input",
			vals:   []float64{4, 1, 3, 2},
			factor: 1.5,
			wantLower: -0.5,
			wantUpper: 5.5,
		},
		{
			name:   "wider factor",
			vals:   []float64{1, 2, 3, 4},
			factor: 3,
			wantLower: -2.75,
			wantUpper: 7.75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := computeBounds(tt.vals, tt.factor)
			if !ok {
				t.Fatal("computeBounds reported no values")
			}
			if !almostEqual(b.Lower, tt.wantLower) {
				t.Errorf("Lower = %v, want %v", b.Lower, tt.wantLower)
			}
			if !almostEqual(b.Upper, tt.wantUpper) {
				t.Errorf("Upper = %v, want %v", b.Upper, tt.wantUpper)
			}
		})
	}
}

func TestComputeBoundsEmpty(t *testing.T) {
	if _, ok := computeBounds(nil, 1.5); ok {
		t.Error("empty input should report false")
	}
}

func TestBoundsContainsClamp(t *testing.T) {
	b := Bounds{Lower: -1, Upper: 7}

	for _, v := range []float64{-1, 0, 3.5, 7} {
		if !b.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{-1.01, 7.01, 100} {
		if b.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}

	if got := b.Clamp(100); got != 7 {
		t.Errorf("Clamp(100) = %v, want 7", got)
	}
	if got := b.Clamp(-50); got != -1 {
		t.Errorf("Clamp(-50) = %v, want -1", got)
	}
	if got := b.Clamp(3); got != 3 {
		t.Errorf("Clamp(3) = %v, want 3", got)
	}
}
