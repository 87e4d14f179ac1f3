package eci

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func TestSlope_PerfectLine(t *testing.T) {
	values := []float64{2, 5, 8, 11}
	approx(t, Slope(values, nil), 3, 1e-12)
}

func TestSlope_ExplicitIndices(t *testing.T) {
	approx(t, Slope([]float64{0, 2, 4}, []float64{0, 2, 4}), 1, 1e-12)
	// Index and value lengths disagree; the fit truncates to the shorter.
	approx(t, Slope([]float64{0, 2, 4, 99}, []float64{0, 2, 4}), 1, 1e-12)
}

func TestSlope_TooFewPoints(t *testing.T) {
	if got := Slope([]float64{5}, nil); got != 0 {
		t.Fatalf("single point must yield 0, got %v", got)
	}
	if got := Slope(nil, nil); got != 0 {
		t.Fatalf("empty must yield 0, got %v", got)
	}
}

func TestSlope_ConstantIndices(t *testing.T) {
	if got := Slope([]float64{1, 2, 3}, []float64{4, 4, 4}); got != 0 {
		t.Fatalf("zero-variance indices must yield 0, got %v", got)
	}
}

func TestSlope_FlatTrajectory(t *testing.T) {
	approx(t, Slope([]float64{7, 7, 7, 7}, nil), 0, 1e-12)
}

func TestResidualize(t *testing.T) {
	values := []float64{1, 2, 3}

	got := Residualize(values, []float64{2, 2, 2})
	want := []float64{-1, 0, 1}
	for i := range want {
		approx(t, got[i], want[i], 1e-12)
	}

	// No control condition means no adjustment.
	identity := Residualize(values, nil)
	for i := range values {
		if identity[i] != values[i] {
			t.Fatalf("want identity at %d, got %v", i, identity)
		}
	}
}

func TestClassifyCollapse_StrictBoundary(t *testing.T) {
	threshold := DefaultCollapseThreshold

	if !ClassifyCollapse(threshold-1e-9, threshold) {
		t.Fatal("value just below the threshold must classify as collapse")
	}
	if ClassifyCollapse(threshold, threshold) {
		t.Fatal("value equal to the threshold must not classify as collapse")
	}
	if ClassifyCollapse(0, threshold) {
		t.Fatal("flat trajectory must not classify as collapse")
	}
}

func TestCollapseFraction(t *testing.T) {
	values := []float64{-0.1, -0.02, 0, 0.05}
	approx(t, CollapseFraction(values, -0.02), 0.25, 1e-12)
	if got := CollapseFraction(nil, -0.02); got != 0 {
		t.Fatalf("want 0 on empty, got %v", got)
	}
}

func TestSummary(t *testing.T) {
	got := Summary([]float64{-0.1, 0, 0.1}, -0.02)

	approx(t, got.Mean, 0, 1e-12)
	approx(t, got.Median, 0, 1e-12)
	approx(t, got.Std, math.Sqrt(0.02/3), 1e-12)
	approx(t, got.CollapseFraction, 1.0/3.0, 1e-12)
	if got.N != 3 {
		t.Fatalf("want N=3, got %d", got.N)
	}
}

func TestSummary_Empty(t *testing.T) {
	got := Summary(nil, -0.02)
	if got.N != 0 || got.Mean != 0 || got.Std != 0 || got.Median != 0 || got.CollapseFraction != 0 {
		t.Fatalf("want zero summary on empty input, got %+v", got)
	}
}
