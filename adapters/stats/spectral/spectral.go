// Package spectral derives dimensionality measures from singular-value
// spectra of model hidden states.
package spectral

import (
	"math"

	"github.com/montanaflynn/stats"

	domstats "entropynull/domain/stats"
)

// EffectiveRank is exp(H) where H is the Shannon entropy (natural log) of
// the squared-and-normalized singular values. Entries that normalize to
// exactly zero probability are excluded from the entropy sum. An empty
// spectrum has effective rank 0.
func EffectiveRank(singularValues []float64) float64 {
	if len(singularValues) == 0 {
		return 0
	}

	total := 0.0
	squared := make([]float64, len(singularValues))
	for i, s := range singularValues {
		squared[i] = s * s
		total += squared[i]
	}
	if total == 0 {
		return 0
	}

	h := 0.0
	for _, sq := range squared {
		p := sq / total
		if p > 0 {
			h -= p * math.Log(p)
		}
	}

	return math.Exp(h)
}

// ParticipationRatio is (sum s^2)^2 / sum s^4. The second return value is
// false when the ratio comes out non-finite, which the caller must treat
// as a missing measurement rather than a zero. Empty spectra and a zero
// denominator both yield (0, true).
func ParticipationRatio(singularValues []float64) (float64, bool) {
	if len(singularValues) == 0 {
		return 0, true
	}

	sum2, sum4 := 0.0, 0.0
	for _, s := range singularValues {
		sq := s * s
		sum2 += sq
		sum4 += sq * sq
	}
	if sum4 == 0 {
		return 0, true
	}

	pr := sum2 * sum2 / sum4
	if math.IsNaN(pr) || math.IsInf(pr, 0) {
		return 0, false
	}
	return pr, true
}

// Variance is the population variance of a flattened hidden-state array.
func Variance(hiddenStates []float64) float64 {
	if len(hiddenStates) == 0 {
		return 0
	}
	v, err := stats.PopulationVariance(hiddenStates)
	if err != nil {
		return 0
	}
	return v
}

// AggregateTrajectory summarizes one per-window metric trajectory.
func AggregateTrajectory(values []float64) domstats.TrajectoryStats {
	if len(values) == 0 {
		return domstats.TrajectoryStats{}
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	return domstats.TrajectoryStats{Mean: mean, Std: std, Min: min, Max: max}
}
