package excel

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"entropynull/domain/core"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("create sheet %s: %v", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReader_Roundtrip(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		InternalSheet: {
			{"prompt_id", "model_name", "eci_raw", "eci_residualized", "early_eci_raw", "effective_ranks"},
			{"p1", "microsoft/phi-2", -0.05, -0.04, -0.06, "[40.0, 35.2, 28.1]"},
			{"p2", "mistralai/Mistral-7B-v0.1", 0.001, 0.002, 0.0, "[41.0, 40.8]"},
		},
		ExternalSheet: {
			{"prompt_id", "model_name", "qa_failure", "reasoning_failures"},
			{"p1", "microsoft/phi-2", "True", "{'contradiction': 2}"},
			{"p2", "mistralai/Mistral-7B-v0.1", "False", "{}"},
		},
	})

	r := NewReader(path)

	internal, err := r.Internal(context.Background())
	if err != nil {
		t.Fatalf("read internal sheet: %v", err)
	}
	if len(internal) != 2 {
		t.Fatalf("want 2 internal rows, got %d", len(internal))
	}
	if internal[0].Prompt != "p1" || internal[0].Model != "microsoft/phi-2" {
		t.Fatalf("unexpected first row key: %v/%v", internal[0].Prompt, internal[0].Model)
	}
	if len(internal[0].EffectiveRanks) != 3 || internal[0].EffectiveRanks[0] != 40.0 {
		t.Fatalf("effective_ranks did not parse: %v", internal[0].EffectiveRanks)
	}

	external, err := r.External(context.Background())
	if err != nil {
		t.Fatalf("read external sheet: %v", err)
	}
	if !external[0].QAFailure || external[1].QAFailure {
		t.Fatalf("qa_failure did not parse: %v / %v", external[0].QAFailure, external[1].QAFailure)
	}
	if external[0].ReasoningFailures["contradiction"] != 2 {
		t.Fatalf("reasoning_failures did not parse: %v", external[0].ReasoningFailures)
	}
}

func TestReader_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		InternalSheet: {
			{"prompt_id", "model_name", "eci_raw", "eci_residualized", "early_eci_raw", "effective_ranks"},
		},
	})

	_, err := NewReader(path).External(context.Background())
	if !errors.Is(err, core.ErrMissingSheet) {
		t.Fatalf("want ErrMissingSheet, got %v", err)
	}
}

func TestReader_MissingColumn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		InternalSheet: {
			{"prompt_id", "model_name"},
			{"p1", "m"},
		},
	})

	_, err := NewReader(path).Internal(context.Background())
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
}

func TestReader_MissingWorkbook(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "absent.xlsx")).Internal(context.Background()); err == nil {
		t.Fatal("want error for absent workbook")
	}
}
