// Package app orchestrates the reproduction pipeline: load, join,
// optionally subsample, compute, write artifacts, persist.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"entropynull/adapters/stats/bootstrap"
	"entropynull/adapters/stats/calibration"
	"entropynull/adapters/stats/eci"
	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
	domstats "entropynull/domain/stats"
	"entropynull/internal"
	"entropynull/internal/dataset"
	apperrors "entropynull/internal/errors"
	"entropynull/internal/figures"
	"entropynull/internal/report"
	"entropynull/ports"
)

// SummaryFile is the machine-readable run summary artifact.
const SummaryFile = "summary.json"

// RunOptions parameterizes one reproduction.
type RunOptions struct {
	RunDir    string
	OutputDir string
	Smoke     bool
	Seed      int64
	Resamples int
	Subject   core.ModelKey
	Control   core.ModelKey
	Threshold float64
}

// DefaultRunOptions returns the paper's parameters for a run directory.
func DefaultRunOptions(runDir, outputDir string) RunOptions {
	return RunOptions{
		RunDir:    runDir,
		OutputDir: outputDir,
		Seed:      bootstrap.DefaultSeed,
		Resamples: bootstrap.DefaultResamples,
		Subject:   figures.DefaultSubjectModel,
		Control:   figures.DefaultControlModel,
		Threshold: eci.DefaultCollapseThreshold,
	}
}

// AnalysisService wires the metrics source, optional persistence and the
// statistical core into one pipeline.
type AnalysisService struct {
	source ports.MetricsSource
	repo   ports.SummaryRepository
	log    *internal.Logger
}

// NewAnalysisService creates a service. repo may be nil to disable
// persistence.
func NewAnalysisService(source ports.MetricsSource, repo ports.SummaryRepository, log *internal.Logger) *AnalysisService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AnalysisService{source: source, repo: repo, log: log}
}

// Reproduce runs the full pipeline and returns the run summary. Artifacts
// (three figure payloads, summary.json, report.md) are written into
// opts.OutputDir.
func (s *AnalysisService) Reproduce(ctx context.Context, opts RunOptions) (domstats.RunSummary, error) {
	var summary domstats.RunSummary

	s.log.Info("loading metrics from %s", opts.RunDir)
	internalRows, err := s.source.Internal(ctx)
	if err != nil {
		return summary, wrapInput(err, "load internal metrics")
	}
	externalRows, err := s.source.External(ctx)
	if err != nil {
		return summary, wrapInput(err, "load external metrics")
	}

	merged, err := dataset.Merge(internalRows, externalRows)
	if err != nil {
		return summary, wrapInput(err, "merge internal and external metrics")
	}

	if opts.Smoke {
		s.log.Info("smoke mode: subsampling %d rows", len(merged))
		merged = dataset.Subsample(merged, dataset.SmokeFraction, dataset.SmokeMinRows, opts.Seed)
	}
	s.log.Info("analyzing %d merged sequences", len(merged))

	bootOpts := bootstrap.Options{Resamples: opts.Resamples, Seed: opts.Seed, Alpha: bootstrap.DefaultAlpha}

	fig1 := figures.BuildECIHistograms(merged, opts.Subject, opts.Control, figures.DefaultHistogramBins)
	fig2 := figures.BuildRankTrajectories(merged, opts.Threshold, figures.DefaultTrajectorySamples)
	fig3 := figures.BuildFailurePanel(ctx, merged, bootOpts, calibration.DefaultBins)

	summary = domstats.RunSummary{
		RunID:             core.NewRunID(),
		RunDir:            opts.RunDir,
		Rows:              len(merged),
		Smoke:             opts.Smoke,
		Seed:              opts.Seed,
		Resamples:         bootOpts.Resamples,
		CollapseThreshold: opts.Threshold,
		PerModel:          perModelSummaries(merged, opts.Threshold),
		Failure:           fig3,
		GeneratedAt:       time.Now().UTC(),
	}

	suffix := ""
	if opts.Smoke {
		suffix = "_smoke"
	}
	if err := figures.WriteArtifacts(opts.OutputDir, suffix, fig1, fig2, fig3); err != nil {
		return summary, apperrors.Wrap(err, "write figure artifacts")
	}
	if err := writeSummaryArtifacts(opts.OutputDir, summary); err != nil {
		return summary, apperrors.Wrap(err, "write summary artifacts")
	}
	s.log.Info("artifacts written to %s", opts.OutputDir)

	if s.repo != nil {
		if err := s.repo.SaveSummary(ctx, summary); err != nil {
			// Persistence is auxiliary; the artifacts on disk are the
			// product of record.
			s.log.Warn("persist run summary: %v", err)
		}
	}

	s.log.Info("ROC-AUC %.3f [%.3f, %.3f], PR-AUC %.3f [%.3f, %.3f]",
		fig3.ROCAUC.Estimate, fig3.ROCAUC.Lower, fig3.ROCAUC.Upper,
		fig3.PRAUC.Estimate, fig3.PRAUC.Lower, fig3.PRAUC.Upper)

	return summary, nil
}

// wrapInput attaches the structural-error codes the CLI and callers key
// on: absent files and columns are MISSING_INPUT, an empty join is
// INVALID_INPUT.
func wrapInput(err error, message string) error {
	switch {
	case errors.Is(err, core.ErrEmptyJoin):
		return &apperrors.AppError{Code: apperrors.CodeInvalidInput, Message: message, Cause: err}
	case core.IsStructural(err):
		return &apperrors.AppError{Code: apperrors.CodeMissingInput, Message: message, Cause: err}
	}
	return apperrors.Wrap(err, message)
}

func perModelSummaries(rows []domdataset.MergedRow, threshold float64) []domstats.ModelECISummary {
	byModel := map[core.ModelKey][]float64{}
	for _, row := range rows {
		byModel[row.Internal.Model] = append(byModel[row.Internal.Model], row.Internal.ECIResidualized)
	}

	models := make([]core.ModelKey, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i] < models[j] })

	out := make([]domstats.ModelECISummary, 0, len(models))
	for _, m := range models {
		out = append(out, domstats.ModelECISummary{
			Model:   m,
			Summary: eci.Summary(byModel[m], threshold),
		})
	}
	return out
}

func writeSummaryArtifacts(dir string, summary domstats.RunSummary) error {
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SummaryFile), raw, 0o644); err != nil {
		return err
	}

	md := report.BuildMarkdown(summary)
	return os.WriteFile(filepath.Join(dir, report.FileName), []byte(md), 0o644)
}
