package bootstrap

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

func TestRankAUC_OneInversion(t *testing.T) {
	// One inversion among the 4 ordered positive/negative pairs.
	labels := []int{0, 0, 1, 1}
	scores := []float64{0.1, 0.4, 0.35, 0.8}

	auc, err := RankAUC(labels, scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, auc, 0.75, 1e-12)
}

func TestRankAUC_PerfectAndInverted(t *testing.T) {
	labels := []int{0, 0, 1, 1}

	auc, err := RankAUC(labels, []float64{0.1, 0.2, 0.8, 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, auc, 1.0, 1e-12)

	auc, err = RankAUC(labels, []float64{0.9, 0.8, 0.2, 0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, auc, 0.0, 1e-12)
}

func TestRankAUC_TiedScoresAverageRank(t *testing.T) {
	// A fully tied positive/negative pair contributes exactly 1/2.
	auc, err := RankAUC([]int{0, 1}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, auc, 0.5, 1e-12)
}

func TestRankAUC_Degenerate(t *testing.T) {
	if _, err := RankAUC([]int{1, 1}, []float64{0.1, 0.2}); err == nil {
		t.Fatal("expected degenerate error for all-positive labels")
	}
	if _, err := RankAUC(nil, nil); err == nil {
		t.Fatal("expected degenerate error for empty sample")
	}
}

func TestAveragePrecision_StepIntegration(t *testing.T) {
	labels := []int{0, 0, 1, 1}
	scores := []float64{0.1, 0.4, 0.35, 0.8}

	ap, err := AveragePrecision(labels, scores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Steps: recall 0.5 at precision 1, recall 1.0 at precision 2/3.
	approx(t, ap, 0.5+0.5*(2.0/3.0), 1e-12)
}

func TestAveragePrecision_PerfectRanking(t *testing.T) {
	ap, err := AveragePrecision([]int{0, 1}, []float64{0.2, 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, ap, 1.0, 1e-12)
}

func TestROCCurvePoints_DegradesToDiagonal(t *testing.T) {
	fpr, tpr := ROCCurvePoints([]int{1, 1}, []float64{0.1, 0.2})
	if len(fpr) != 2 || fpr[0] != 0 || fpr[1] != 1 || tpr[0] != 0 || tpr[1] != 1 {
		t.Fatalf("expected two-point diagonal, got fpr=%v tpr=%v", fpr, tpr)
	}
}

func TestROCCurvePoints_MonotoneAndComplete(t *testing.T) {
	labels := []int{0, 0, 1, 1}
	scores := []float64{0.1, 0.4, 0.35, 0.8}

	fpr, tpr := ROCCurvePoints(labels, scores)
	if len(fpr) != len(tpr) {
		t.Fatalf("misaligned curve: %d vs %d", len(fpr), len(tpr))
	}
	if fpr[0] != 0 || tpr[0] != 0 {
		t.Fatalf("curve must start at origin, got (%v, %v)", fpr[0], tpr[0])
	}
	if fpr[len(fpr)-1] != 1 || tpr[len(tpr)-1] != 1 {
		t.Fatalf("curve must end at (1,1), got (%v, %v)", fpr[len(fpr)-1], tpr[len(tpr)-1])
	}
	for i := 1; i < len(fpr); i++ {
		if fpr[i] < fpr[i-1] || tpr[i] < tpr[i-1] {
			t.Fatalf("curve not monotone at %d: %v %v", i, fpr, tpr)
		}
	}
}

func TestPRCurvePoints_DegradesToPrevalence(t *testing.T) {
	precision, recall := PRCurvePoints([]int{1, 1, 1}, []float64{0.1, 0.2, 0.3})
	if len(precision) != 2 || precision[0] != 1 || precision[1] != 1 {
		t.Fatalf("expected flat prevalence line, got %v", precision)
	}
	if recall[0] != 0 || recall[1] != 1 {
		t.Fatalf("expected recall endpoints, got %v", recall)
	}

	precision, _ = PRCurvePoints(nil, nil)
	approx(t, precision[0], 0.5, 1e-12)
}

func TestPRCurvePoints_Terminator(t *testing.T) {
	precision, recall := PRCurvePoints([]int{0, 1}, []float64{0.2, 0.9})
	last := len(precision) - 1
	if precision[last] != 1 || recall[last] != 0 {
		t.Fatalf("expected (1, 0) terminator, got (%v, %v)", precision[last], recall[last])
	}
}

func TestTiedRanks(t *testing.T) {
	ranks := tiedRanks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		approx(t, ranks[i], want[i], 1e-12)
	}
}
