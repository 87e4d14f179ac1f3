// Package calibration bins predicted-probability/outcome pairs into
// reliability-curve coordinates.
package calibration

import (
	domstats "entropynull/domain/stats"
)

// DefaultBins partitions [0,1] into ten equal-width intervals.
const DefaultBins = 10

// Curve assigns every sample to bin floor(prob*nBins), clamped to
// [0, nBins-1] so a probability of exactly 1.0 lands in the last bin. Each
// occupied bin contributes one (mean predicted probability, positive
// fraction) point, in increasing bin order; bins whose mean predicted
// probability is zero are filtered out. Empty input yields an empty curve.
func Curve(labels []int, probs []float64, nBins int) domstats.CalibrationCurve {
	if nBins <= 0 {
		nBins = DefaultBins
	}

	curve := domstats.CalibrationCurve{
		MeanPredicted:    []float64{},
		FractionPositive: []float64{},
	}
	if len(labels) == 0 {
		return curve
	}

	probSum := make([]float64, nBins)
	posSum := make([]float64, nBins)
	counts := make([]int, nBins)

	for i, p := range probs {
		idx := int(p * float64(nBins))
		if idx < 0 {
			idx = 0
		}
		if idx > nBins-1 {
			idx = nBins - 1
		}
		probSum[idx] += p
		if labels[i] == 1 {
			posSum[idx]++
		}
		counts[idx]++
	}

	for b := 0; b < nBins; b++ {
		if counts[b] == 0 {
			continue
		}
		meanPred := probSum[b] / float64(counts[b])
		if meanPred <= 0 {
			continue
		}
		curve.MeanPredicted = append(curve.MeanPredicted, meanPred)
		curve.FractionPositive = append(curve.FractionPositive, posSum[b]/float64(counts[b]))
	}

	return curve
}
