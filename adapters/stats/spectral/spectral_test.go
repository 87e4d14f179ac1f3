package spectral

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

func TestEffectiveRank_UniformSpectrum(t *testing.T) {
	// k equal singular values carry k effective dimensions.
	approx(t, EffectiveRank([]float64{2, 2, 2, 2}), 4, 1e-9)
	approx(t, EffectiveRank([]float64{5}), 1, 1e-12)
}

func TestEffectiveRank_ZeroEntriesExcluded(t *testing.T) {
	approx(t, EffectiveRank([]float64{1, 0, 0}), 1, 1e-12)
}

func TestEffectiveRank_Empty(t *testing.T) {
	if got := EffectiveRank(nil); got != 0 {
		t.Fatalf("want 0 on empty spectrum, got %v", got)
	}
	if got := EffectiveRank([]float64{0, 0}); got != 0 {
		t.Fatalf("want 0 on all-zero spectrum, got %v", got)
	}
}

func TestParticipationRatio(t *testing.T) {
	pr, ok := ParticipationRatio([]float64{1, 1})
	if !ok {
		t.Fatal("finite spectrum must be ok")
	}
	approx(t, pr, 2, 1e-12)

	// A dominant direction pulls the ratio toward 1.
	pr, ok = ParticipationRatio([]float64{10, 0.1})
	if !ok {
		t.Fatal("finite spectrum must be ok")
	}
	if pr >= 1.1 {
		t.Fatalf("dominated spectrum should sit near 1, got %v", pr)
	}
}

func TestParticipationRatio_ZeroAndEmpty(t *testing.T) {
	if pr, ok := ParticipationRatio(nil); pr != 0 || !ok {
		t.Fatalf("empty spectrum: want (0, true), got (%v, %v)", pr, ok)
	}
	if pr, ok := ParticipationRatio([]float64{0, 0}); pr != 0 || !ok {
		t.Fatalf("zero spectrum: want (0, true), got (%v, %v)", pr, ok)
	}
}

func TestParticipationRatio_Overflow(t *testing.T) {
	// Squaring overflows to +Inf; the caller must see a missing value.
	if pr, ok := ParticipationRatio([]float64{math.MaxFloat64}); ok || pr != 0 {
		t.Fatalf("overflowed spectrum: want (0, false), got (%v, %v)", pr, ok)
	}
}

func TestVariance(t *testing.T) {
	approx(t, Variance([]float64{1, 3}), 1, 1e-12)
	if got := Variance([]float64{2, 2, 2}); got != 0 {
		t.Fatalf("constant states: want 0, got %v", got)
	}
	if got := Variance(nil); got != 0 {
		t.Fatalf("empty states: want 0, got %v", got)
	}
}

func TestAggregateTrajectory(t *testing.T) {
	got := AggregateTrajectory([]float64{1, 2, 3})

	approx(t, got.Mean, 2, 1e-12)
	approx(t, got.Std, math.Sqrt(2.0/3.0), 1e-12)
	approx(t, got.Min, 1, 1e-12)
	approx(t, got.Max, 3, 1e-12)
}

func TestAggregateTrajectory_Empty(t *testing.T) {
	got := AggregateTrajectory(nil)
	if got.Mean != 0 || got.Std != 0 || got.Min != 0 || got.Max != 0 {
		t.Fatalf("want zero stats on empty trajectory, got %+v", got)
	}
}
