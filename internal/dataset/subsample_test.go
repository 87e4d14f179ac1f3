package dataset

import (
	"fmt"
	"testing"

	domdataset "entropynull/domain/dataset"
)

func mergedRows(n int) []domdataset.MergedRow {
	rows := make([]domdataset.MergedRow, n)
	for i := range rows {
		rows[i].Internal = internalRow(fmt.Sprintf("p%04d", i), "m", 0)
	}
	return rows
}

func TestSubsample_TargetSize(t *testing.T) {
	rows := mergedRows(1000)

	got := Subsample(rows, SmokeFraction, SmokeMinRows, 42)
	if len(got) != 50 {
		t.Fatalf("5%% of 1000: want 50 rows, got %d", len(got))
	}
}

func TestSubsample_MinimumFloor(t *testing.T) {
	rows := mergedRows(200)

	// 5% of 200 is 10; the floor lifts it to 30.
	got := Subsample(rows, SmokeFraction, SmokeMinRows, 42)
	if len(got) != SmokeMinRows {
		t.Fatalf("want %d rows, got %d", SmokeMinRows, len(got))
	}
}

func TestSubsample_SmallTablePassesThrough(t *testing.T) {
	rows := mergedRows(12)

	got := Subsample(rows, SmokeFraction, SmokeMinRows, 42)
	if len(got) != 12 {
		t.Fatalf("table below the floor must pass through whole, got %d", len(got))
	}
	for i := range rows {
		if got[i].Internal.Prompt != rows[i].Internal.Prompt {
			t.Fatalf("row %d reordered", i)
		}
	}
}

func TestSubsample_DeterministicAndOrdered(t *testing.T) {
	rows := mergedRows(500)

	first := Subsample(rows, SmokeFraction, SmokeMinRows, 42)
	second := Subsample(rows, SmokeFraction, SmokeMinRows, 42)
	if len(first) != len(second) {
		t.Fatalf("sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Internal.Prompt != second[i].Internal.Prompt {
			t.Fatalf("same seed must pick the same rows, diverged at %d", i)
		}
	}

	// Picked rows stay in original table order.
	for i := 1; i < len(first); i++ {
		if first[i].Internal.Prompt <= first[i-1].Internal.Prompt {
			t.Fatalf("subsample not in table order at %d", i)
		}
	}

	other := Subsample(rows, SmokeFraction, SmokeMinRows, 7)
	same := true
	for i := range first {
		if first[i].Internal.Prompt != other[i].Internal.Prompt {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds picked identical subsamples")
	}
}
