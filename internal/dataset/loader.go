// Package dataset loads, validates and joins the two metric tables of a
// run directory.
package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
)

const (
	// InternalFile and ExternalFile are the table names inside a run
	// directory.
	InternalFile = "metrics_internal.csv"
	ExternalFile = "metrics_external.csv"
	// ManifestFile carries run metadata and configuration.
	ManifestFile = "manifest.json"
)

// InternalRequiredColumns must exist in metrics_internal; the per-window
// list columns are optional and default to empty sequences.
var InternalRequiredColumns = []string{
	"prompt_id",
	"model_name",
	"eci_raw",
	"eci_residualized",
	"early_eci_raw",
	"effective_ranks",
}

// ExternalRequiredColumns must exist in metrics_external.
var ExternalRequiredColumns = []string{
	"prompt_id",
	"model_name",
	"qa_failure",
}

// Source reads a run directory of CSV tables. It implements
// ports.MetricsSource.
type Source struct {
	Dir string
}

// NewSource returns a CSV-backed metrics source for a run directory.
func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// Internal loads and validates metrics_internal.csv.
func (s *Source) Internal(ctx context.Context) ([]domdataset.InternalRow, error) {
	header, records, err := readTable(filepath.Join(s.Dir, InternalFile), s.Dir)
	if err != nil {
		return nil, err
	}
	return BuildInternalRows(InternalFile, header, records)
}

// External loads and validates metrics_external.csv.
func (s *Source) External(ctx context.Context) ([]domdataset.ExternalRow, error) {
	header, records, err := readTable(filepath.Join(s.Dir, ExternalFile), s.Dir)
	if err != nil {
		return nil, err
	}
	return BuildExternalRows(ExternalFile, header, records)
}

// LoadManifest reads the run's manifest.json metadata.
func LoadManifest(dir string) (map[string]any, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewMissingFileError(ManifestFile, dir)
		}
		return nil, fmt.Errorf("read %s: %w", ManifestFile, err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	return manifest, nil
}

// BuildInternalRows validates the header and converts raw records. Shared
// by the CSV source and the Excel adapter.
func BuildInternalRows(table string, header []string, records [][]string) ([]domdataset.InternalRow, error) {
	cols, err := columnIndex(table, header, InternalRequiredColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]domdataset.InternalRow, 0, len(records))
	for _, rec := range records {
		get := cellGetter(cols, rec)
		rows = append(rows, domdataset.InternalRow{
			Prompt:              core.PromptID(get("prompt_id")),
			Model:               core.ModelKey(get("model_name")),
			ECIRaw:              ParseFloat(get("eci_raw")),
			ECIResidualized:     ParseFloat(get("eci_residualized")),
			EarlyECIRaw:         ParseFloat(get("early_eci_raw")),
			EffectiveRanks:      SafeParseList(get("effective_ranks")),
			ParticipationRatios: SafeParseList(get("participation_ratios")),
			Variances:           SafeParseList(get("variances")),
			WindowStarts:        SafeParseList(get("window_starts")),
			WindowEnds:          SafeParseList(get("window_ends")),
		})
	}
	return rows, nil
}

// BuildExternalRows validates the header and converts raw records.
func BuildExternalRows(table string, header []string, records [][]string) ([]domdataset.ExternalRow, error) {
	cols, err := columnIndex(table, header, ExternalRequiredColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]domdataset.ExternalRow, 0, len(records))
	for _, rec := range records {
		get := cellGetter(cols, rec)
		rows = append(rows, domdataset.ExternalRow{
			Prompt:             core.PromptID(get("prompt_id")),
			Model:              core.ModelKey(get("model_name")),
			QAFailure:          ParseBool(get("qa_failure")),
			ReasoningFailures:  SafeParseDict(get("reasoning_failures")),
			DeltaIValues:       SafeParseList(get("delta_i_values")),
			NgramNoveltyValues: SafeParseList(get("ngram_novelty_values")),
			CharEntropyValues:  SafeParseList(get("char_entropy_values")),
		})
	}
	return rows, nil
}

func readTable(path, dir string) (header []string, records [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, core.NewMissingFileError(filepath.Base(path), dir)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated per cell via the header index

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, core.NewMissingColumnError(filepath.Base(path), InternalRequiredColumns)
	}

	return all[0], all[1:], nil
}

func columnIndex(table string, header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnError(table, missing)
	}

	return cols, nil
}

// cellGetter returns "" for optional columns that are absent, which the
// defensive parsers turn into empty containers.
func cellGetter(cols map[string]int, rec []string) func(string) string {
	return func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return rec[idx]
	}
}
