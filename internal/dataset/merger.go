package dataset

import (
	"entropynull/domain/core"
	domdataset "entropynull/domain/dataset"
)

// Merge inner-joins the internal and external tables on
// (prompt_id, model_name), preserving internal-table order. Duplicate
// external keys keep the first occurrence. A join with zero matches is a
// reported error, never a silent empty result: every figure downstream
// would be vacuous.
func Merge(internal []domdataset.InternalRow, external []domdataset.ExternalRow) ([]domdataset.MergedRow, error) {
	byKey := make(map[core.SampleKey]domdataset.ExternalRow, len(external))
	for _, row := range external {
		if _, ok := byKey[row.Key()]; !ok {
			byKey[row.Key()] = row
		}
	}

	merged := make([]domdataset.MergedRow, 0, len(internal))
	for _, row := range internal {
		ext, ok := byKey[row.Key()]
		if !ok {
			continue
		}
		merged = append(merged, domdataset.MergedRow{Internal: row, External: ext})
	}

	if len(merged) == 0 {
		return nil, core.ErrEmptyJoin
	}
	return merged, nil
}
