// Package excel reads runs exported as a single xlsx workbook with
// metrics_internal and metrics_external worksheets. Column requirements
// and defensive sequence parsing match the CSV source exactly.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
	"entropynull/internal/dataset"
)

const (
	InternalSheet = "metrics_internal"
	ExternalSheet = "metrics_external"
)

// Reader implements ports.MetricsSource over an xlsx workbook.
type Reader struct {
	Path string
}

// NewReader returns an xlsx-backed metrics source.
func NewReader(path string) *Reader {
	return &Reader{Path: path}
}

// Internal loads and validates the metrics_internal worksheet.
func (r *Reader) Internal(ctx context.Context) ([]domdataset.InternalRow, error) {
	header, records, err := r.sheetRows(InternalSheet)
	if err != nil {
		return nil, err
	}
	return dataset.BuildInternalRows(InternalSheet, header, records)
}

// External loads and validates the metrics_external worksheet.
func (r *Reader) External(ctx context.Context) ([]domdataset.ExternalRow, error) {
	header, records, err := r.sheetRows(ExternalSheet)
	if err != nil {
		return nil, err
	}
	return dataset.BuildExternalRows(ExternalSheet, header, records)
}

func (r *Reader) sheetRows(sheet string) (header []string, records [][]string, err error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook %s: %w", r.Path, err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, nil, fmt.Errorf("%w: %s in %s", core.ErrMissingSheet, sheet, r.Path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, core.NewMissingColumnError(sheet, dataset.InternalRequiredColumns)
	}

	return rows[0], rows[1:], nil
}
