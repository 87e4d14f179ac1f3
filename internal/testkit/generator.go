// Package testkit generates seeded synthetic run data: paired internal
// and external metric tables with a planted collapse/failure relationship,
// for tests and for the fixture command.
package testkit

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"entropynull/adapters/stats/eci"
	"entropynull/adapters/stats/textmetrics"
	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
	"entropynull/internal/dataset"
)

// Config shapes the synthetic run.
type Config struct {
	Rows    int
	Seed    int64
	Windows int

	// CollapseRate is the fraction of subject-model sequences generated
	// with a steep negative rank trend.
	CollapseRate float64
	// FailureSignal is the probability that a collapsed sequence also
	// fails its QA task (non-collapsed sequences fail at 1-FailureSignal).
	FailureSignal float64

	Subject core.ModelKey
	Control core.ModelKey
}

// DefaultConfig mirrors the affordable run's shape at test scale.
func DefaultConfig() Config {
	return Config{
		Rows:          200,
		Seed:          42,
		Windows:       12,
		CollapseRate:  0.3,
		FailureSignal: 0.85,
		Subject:       "microsoft/phi-2",
		Control:       "mistralai/Mistral-7B-v0.1",
	}
}

// Run is one generated pair of metric tables.
type Run struct {
	Internal []domdataset.InternalRow
	External []domdataset.ExternalRow
}

// Generate builds a deterministic synthetic run. Half the rows belong to
// the subject model, half to the control; only subject rows collapse.
func Generate(cfg Config) (*Run, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if cfg.Windows < 2 {
		return nil, fmt.Errorf("windows must be >= 2")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	run := &Run{}

	for i := 0; i < cfg.Rows; i++ {
		model := cfg.Subject
		collapsed := false
		if i%2 == 1 {
			model = cfg.Control
		} else if rng.Float64() < cfg.CollapseRate {
			collapsed = true
		}

		ranks := rankTrajectory(rng, cfg.Windows, collapsed)
		slope := eci.Slope(ranks, nil)

		prompt := core.PromptID(fmt.Sprintf("prompt_%04d", i))
		starts := make([]float64, cfg.Windows)
		ends := make([]float64, cfg.Windows)
		prs := make([]float64, cfg.Windows)
		variances := make([]float64, cfg.Windows)
		for w := 0; w < cfg.Windows; w++ {
			starts[w] = float64(w * 32)
			ends[w] = float64((w + 1) * 32)
			prs[w] = ranks[w] * (0.8 + 0.1*rng.Float64())
			variances[w] = 0.5 + 0.2*rng.Float64()
		}

		run.Internal = append(run.Internal, domdataset.InternalRow{
			Prompt:              prompt,
			Model:               model,
			ECIRaw:              slope,
			ECIResidualized:     slope,
			EarlyECIRaw:         eci.Slope(ranks[:cfg.Windows/2], nil),
			EffectiveRanks:      ranks,
			ParticipationRatios: prs,
			Variances:           variances,
			WindowStarts:        starts,
			WindowEnds:          ends,
		})

		failProb := 1 - cfg.FailureSignal
		if collapsed {
			failProb = cfg.FailureSignal
		}
		failure := rng.Float64() < failProb
		reasoning := map[string]float64{}
		if failure {
			reasoning["contradiction"] = float64(1 + rng.Intn(3))
		}

		deltaI, novelty, entropy := behavioralSeries(rng, cfg.Windows, collapsed)
		run.External = append(run.External, domdataset.ExternalRow{
			Prompt:             prompt,
			Model:              model,
			QAFailure:          failure,
			ReasoningFailures:  reasoning,
			DeltaIValues:       deltaI,
			NgramNoveltyValues: novelty,
			CharEntropyValues:  entropy,
		})
	}

	return run, nil
}

// Source adapts a generated run to ports.MetricsSource for in-memory
// pipeline tests.
type Source struct {
	Run *Run
}

func (s Source) Internal(ctx context.Context) ([]domdataset.InternalRow, error) {
	return s.Run.Internal, nil
}

func (s Source) External(ctx context.Context) ([]domdataset.ExternalRow, error) {
	return s.Run.External, nil
}

// WriteRunDir exports the run as the CSV layout the loader expects,
// including a minimal manifest.
func (r *Run) WriteRunDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, dataset.InternalFile), internalHeader, r.internalRecords()); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, dataset.ExternalFile), externalHeader, r.externalRecords()); err != nil {
		return err
	}

	manifest := fmt.Sprintf("{\"run\": \"synthetic\", \"rows\": %d}\n", len(r.Internal))
	return os.WriteFile(filepath.Join(dir, dataset.ManifestFile), []byte(manifest), 0o644)
}

var internalHeader = []string{
	"prompt_id", "model_name", "eci_raw", "eci_residualized", "early_eci_raw",
	"effective_ranks", "participation_ratios", "variances", "window_starts", "window_ends",
}

var externalHeader = []string{
	"prompt_id", "model_name", "qa_failure", "reasoning_failures",
	"delta_i_values", "ngram_novelty_values", "char_entropy_values",
}

func (r *Run) internalRecords() [][]string {
	records := make([][]string, 0, len(r.Internal))
	for _, row := range r.Internal {
		records = append(records, []string{
			string(row.Prompt),
			string(row.Model),
			formatFloat(row.ECIRaw),
			formatFloat(row.ECIResidualized),
			formatFloat(row.EarlyECIRaw),
			formatList(row.EffectiveRanks),
			formatList(row.ParticipationRatios),
			formatList(row.Variances),
			formatList(row.WindowStarts),
			formatList(row.WindowEnds),
		})
	}
	return records
}

func (r *Run) externalRecords() [][]string {
	records := make([][]string, 0, len(r.External))
	for _, row := range r.External {
		failure := "False"
		if row.QAFailure {
			failure = "True"
		}
		records = append(records, []string{
			string(row.Prompt),
			string(row.Model),
			failure,
			formatDict(row.ReasoningFailures),
			formatList(row.DeltaIValues),
			formatList(row.NgramNoveltyValues),
			formatList(row.CharEntropyValues),
		})
	}
	return records
}

// rankTrajectory starts near full effective rank and either drifts flat
// with noise or decays steeply for collapsed sequences.
func rankTrajectory(rng *rand.Rand, windows int, collapsed bool) []float64 {
	base := 40.0 + 5.0*rng.Float64()
	slope := 0.01 * (rng.Float64() - 0.5)
	if collapsed {
		slope = -0.08 - 0.05*rng.Float64()
	}

	out := make([]float64, windows)
	for w := range out {
		noise := 0.02 * (rng.Float64() - 0.5)
		out[w] = base * math.Exp((slope+noise)*float64(w))
	}
	return out
}

// behavioralSeries synthesizes window texts and reduces them with the
// real text metrics. Collapsed sequences shed vocabulary window by
// window, which degrades novelty and entropy the way looping output
// does.
func behavioralSeries(rng *rand.Rand, windows int, collapsed bool) (deltaI, novelty, entropy []float64) {
	texts := windowTexts(rng, windows, collapsed)

	deltaI = make([]float64, windows)
	novelty = make([]float64, windows)
	entropy = make([]float64, windows)
	for w, text := range texts {
		if w > 0 {
			deltaI[w] = textmetrics.DeltaIDrift(texts[w-1], text, textmetrics.DefaultNgram)
		}
		novelty[w] = textmetrics.NgramNovelty(text, textmetrics.DefaultNgram)
		entropy[w] = textmetrics.CharEntropy(text)
	}
	return deltaI, novelty, entropy
}

func windowTexts(rng *rand.Rand, windows int, collapsed bool) []string {
	const tokensPerWindow = 40

	out := make([]string, windows)
	for w := range out {
		vocab := 300
		if collapsed {
			vocab = 60 - 12*w
			if vocab < 3 {
				vocab = 3
			}
		}
		tokens := make([]string, tokensPerWindow)
		for i := range tokens {
			tokens[i] = fmt.Sprintf("w%03d", rng.Intn(vocab))
		}
		out[w] = strings.Join(tokens, " ")
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatDict(m map[string]float64) string {
	if len(m) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("'%s': %s", k, formatFloat(v)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
