package dataset

import (
	"math/rand"
	"sort"

	domdataset "entropynull/domain/dataset"
)

const (
	// SmokeFraction and SmokeMinRows shape the fast smoke-test subsample.
	SmokeFraction = 0.05
	SmokeMinRows  = 30
)

// Subsample draws a seeded random subset of max(len*frac, minRows) rows,
// capped at the full table, keeping original row order. Deterministic for
// a fixed seed.
func Subsample(rows []domdataset.MergedRow, frac float64, minRows int, seed int64) []domdataset.MergedRow {
	target := int(float64(len(rows)) * frac)
	if target < minRows {
		target = minRows
	}
	if target > len(rows) {
		target = len(rows)
	}
	if target == len(rows) {
		out := make([]domdataset.MergedRow, len(rows))
		copy(out, rows)
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(rows))[:target]
	sort.Ints(picked)

	out := make([]domdataset.MergedRow, 0, target)
	for _, i := range picked {
		out = append(out, rows[i])
	}
	return out
}
