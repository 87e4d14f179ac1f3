// Package figures builds the data payloads behind the paper's three
// figures. Chart layout and styling are deliberately out of scope; each
// payload is written as a JSON artifact for the plotting layer.
package figures

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/montanaflynn/stats"

	"entropynull/adapters/stats/bootstrap"
	"entropynull/adapters/stats/calibration"
	"entropynull/adapters/stats/eci"
	"entropynull/adapters/stats/spectral"
	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
	domstats "entropynull/domain/stats"
)

const (
	// DefaultSubjectModel and DefaultControlModel are the paper's model
	// pair for the histogram comparison.
	DefaultSubjectModel core.ModelKey = "microsoft/phi-2"
	DefaultControlModel core.ModelKey = "mistralai/Mistral-7B-v0.1"

	// DefaultHistogramBins matches the published Figure 1.
	DefaultHistogramBins = 30
	// DefaultTrajectorySamples caps the spaghetti plot per group.
	DefaultTrajectorySamples = 50

	trajectorySampleSeed = 42
)

// Histogram is an equal-width binning of one value set. BinEdges has one
// more entry than Counts.
type Histogram struct {
	BinEdges []float64 `json:"bin_edges"`
	Counts   []int     `json:"counts"`
}

// ECIHistograms is the Figure 1 payload: residualized-ECI distributions
// for the subject model vs the control.
type ECIHistograms struct {
	Subject     core.ModelKey `json:"subject_model"`
	Control     core.ModelKey `json:"control_model"`
	SubjectHist Histogram     `json:"subject_histogram"`
	ControlHist Histogram     `json:"control_histogram"`
	Threshold   float64       `json:"collapse_threshold"`
}

// RankTrajectories is the Figure 2 payload: sampled effective-rank
// trajectories split by collapse classification, with per-group
// aggregates over all (not just sampled) rank values.
type RankTrajectories struct {
	Collapsed [][]float64 `json:"collapsed"`
	Normal    [][]float64 `json:"normal"`

	CollapsedStats domstats.TrajectoryStats `json:"collapsed_stats"`
	NormalStats    domstats.TrajectoryStats `json:"normal_stats"`

	Threshold float64 `json:"collapse_threshold"`
}

// BuildECIHistograms bins residualized ECI per model.
func BuildECIHistograms(rows []domdataset.MergedRow, subject, control core.ModelKey, bins int) ECIHistograms {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	var subjectECI, controlECI []float64
	for _, row := range rows {
		switch row.Internal.Model {
		case subject:
			subjectECI = append(subjectECI, row.Internal.ECIResidualized)
		case control:
			controlECI = append(controlECI, row.Internal.ECIResidualized)
		}
	}

	return ECIHistograms{
		Subject:     subject,
		Control:     control,
		SubjectHist: NewHistogram(subjectECI, bins),
		ControlHist: NewHistogram(controlECI, bins),
		Threshold:   eci.DefaultCollapseThreshold,
	}
}

// BuildRankTrajectories classifies each sequence by residualized ECI and
// samples up to nExamples effective-rank trajectories per group with a
// fixed seed.
func BuildRankTrajectories(rows []domdataset.MergedRow, threshold float64, nExamples int) RankTrajectories {
	if nExamples <= 0 {
		nExamples = DefaultTrajectorySamples
	}

	var collapsed, normal [][]float64
	var collapsedRanks, normalRanks []float64
	for _, row := range rows {
		ranks := row.Internal.EffectiveRanks
		if len(ranks) == 0 {
			continue
		}
		if eci.ClassifyCollapse(row.Internal.ECIResidualized, threshold) {
			collapsed = append(collapsed, ranks)
			collapsedRanks = append(collapsedRanks, ranks...)
		} else {
			normal = append(normal, ranks)
			normalRanks = append(normalRanks, ranks...)
		}
	}

	return RankTrajectories{
		Collapsed:      sampleTrajectories(collapsed, nExamples, trajectorySampleSeed),
		Normal:         sampleTrajectories(normal, nExamples, trajectorySampleSeed),
		CollapsedStats: spectral.AggregateTrajectory(collapsedRanks),
		NormalStats:    spectral.AggregateTrajectory(normalRanks),
		Threshold:      threshold,
	}
}

// BuildFailurePanel is the Figure 3 payload: failure labels against the
// negated residualized ECI score (lower ECI means higher failure risk),
// with a sigmoid transform of the score as calibration probability.
func BuildFailurePanel(ctx context.Context, rows []domdataset.MergedRow, opts bootstrap.Options, nBins int) domstats.FailurePrediction {
	labels := make([]int, len(rows))
	scores := make([]float64, len(rows))
	probs := make([]float64, len(rows))
	for i, row := range rows {
		if row.External.QAFailure {
			labels[i] = 1
		}
		e := row.Internal.ECIResidualized
		scores[i] = -e
		probs[i] = 1 / (1 + math.Exp(10*e))
	}

	fpr, tpr := bootstrap.ROCCurvePoints(labels, scores)
	precision, recall := bootstrap.PRCurvePoints(labels, scores)

	pos := 0
	for _, y := range labels {
		pos += y
	}
	prevalence := 0.0
	if len(labels) > 0 {
		prevalence = float64(pos) / float64(len(labels))
	}

	return domstats.FailurePrediction{
		ROCAUC:      bootstrap.ROCAUC(ctx, labels, scores, opts),
		PRAUC:       bootstrap.PRAUC(ctx, labels, scores, opts),
		ROC:         domstats.ROCCurve{FPR: fpr, TPR: tpr},
		PR:          domstats.PRCurve{Precision: precision, Recall: recall},
		Calibration: calibration.Curve(labels, probs, nBins),
		Prevalence:  prevalence,
	}
}

// NewHistogram bins values into equal-width intervals over [min, max];
// the maximum value lands in the last bin.
func NewHistogram(values []float64, bins int) Histogram {
	if len(values) == 0 || bins <= 0 {
		return Histogram{BinEdges: []float64{}, Counts: []int{}}
	}

	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	edges := make([]float64, bins+1)
	counts := make([]int, bins)
	width := (max - min) / float64(bins)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max

	if width == 0 {
		// All values identical: a single occupied bin.
		counts[0] = len(values)
		return Histogram{BinEdges: edges, Counts: counts}
	}

	for _, v := range values {
		idx := int((v - min) / width)
		if idx > bins-1 {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}

	return Histogram{BinEdges: edges, Counts: counts}
}

// WriteArtifacts serializes the three payloads into dir, appending suffix
// (e.g. "_smoke") before the extension.
func WriteArtifacts(dir, suffix string, fig1 ECIHistograms, fig2 RankTrajectories, fig3 domstats.FailurePrediction) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	artifacts := map[string]any{
		"fig1_eci_histograms" + suffix + ".json":              fig1,
		"fig2_effective_rank_trajectories" + suffix + ".json": fig2,
		"fig3_failure_prediction_panel" + suffix + ".json":    fig3,
	}
	for name, payload := range artifacts {
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}

func sampleTrajectories(trajectories [][]float64, n int, seed int64) [][]float64 {
	if len(trajectories) <= n {
		return trajectories
	}
	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(trajectories))[:n]
	out := make([][]float64, 0, n)
	for _, i := range picked {
		out = append(out, trajectories[i])
	}
	return out
}
