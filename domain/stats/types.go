package stats

import (
	"time"

	"entropynull/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (canonical result shapes consumed by figures and report)
// ============================================================================

// Interval is a point estimate with a percentile-bootstrap confidence
// interval. Lower/Upper are empirical percentiles of the resampling
// distribution; they are not guaranteed to bracket Estimate, only
// Lower <= Upper.
type Interval struct {
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// Point collapses an interval to its estimate, used when every bootstrap
// resample was degenerate.
func Point(v float64) Interval {
	return Interval{Estimate: v, Lower: v, Upper: v}
}

// ROCCurve holds receiver-operating-characteristic coordinates. FPR and
// TPR are index-aligned and equal length.
type ROCCurve struct {
	FPR []float64 `json:"fpr"`
	TPR []float64 `json:"tpr"`
}

// PRCurve holds precision-recall coordinates, index-aligned.
type PRCurve struct {
	Precision []float64 `json:"precision"`
	Recall    []float64 `json:"recall"`
}

// CalibrationCurve holds one (mean predicted probability, observed positive
// fraction) point per occupied probability bin, in bin order.
type CalibrationCurve struct {
	MeanPredicted    []float64 `json:"mean_predicted"`
	FractionPositive []float64 `json:"fraction_positive"`
}

// ECISummary describes the distribution of Epistemic Collapse Index values
// for one group of sequences. Std is the population standard deviation.
type ECISummary struct {
	Mean             float64 `json:"mean"`
	Std              float64 `json:"std"`
	Median           float64 `json:"median"`
	CollapseFraction float64 `json:"collapse_fraction"`
	N                int     `json:"n"`
}

// TrajectoryStats aggregates one per-window metric trajectory.
type TrajectoryStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ============================================================================
// RUN-LEVEL RESULTS
// ============================================================================

// FailurePrediction holds everything the failure-prediction panel needs:
// ranking metrics with bootstrap intervals, the raw curves, and the
// calibration of the sigmoid-transformed ECI score.
type FailurePrediction struct {
	ROCAUC      Interval         `json:"roc_auc"`
	PRAUC       Interval         `json:"pr_auc"`
	ROC         ROCCurve         `json:"roc_curve"`
	PR          PRCurve          `json:"pr_curve"`
	Calibration CalibrationCurve `json:"calibration"`
	Prevalence  float64          `json:"prevalence"`
}

// ModelECISummary pairs a model with the ECI distribution of its sequences.
type ModelECISummary struct {
	Model   core.ModelKey `json:"model_name"`
	Summary ECISummary    `json:"summary"`
}

// RunSummary is the persisted record of one analysis invocation.
type RunSummary struct {
	RunID             core.RunID        `json:"run_id"`
	RunDir            string            `json:"run_dir"`
	Rows              int               `json:"rows"`
	Smoke             bool              `json:"smoke"`
	Seed              int64             `json:"seed"`
	Resamples         int               `json:"resamples"`
	CollapseThreshold float64           `json:"collapse_threshold"`
	PerModel          []ModelECISummary `json:"per_model"`
	Failure           FailurePrediction `json:"failure_prediction"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
