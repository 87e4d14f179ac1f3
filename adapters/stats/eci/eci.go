// Package eci computes the Epistemic Collapse Index: the OLS slope of an
// internal metric trajectory over token generation, plus the derived
// classification and distribution summaries.
package eci

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	domstats "entropynull/domain/stats"
)

// DefaultCollapseThreshold is the paper's collapse cutoff for
// residualized ECI.
const DefaultCollapseThreshold = -0.02

// Slope fits metric values against window indices by ordinary least
// squares and returns the slope (the raw ECI). Indices default to
// 0..n-1 when nil. Fewer than two usable points yield 0.
func Slope(values []float64, indices []float64) float64 {
	y := values
	var x []float64
	if indices == nil {
		x = make([]float64, len(y))
		for i := range x {
			x[i] = float64(i)
		}
	} else {
		n := len(indices)
		if n > len(y) {
			n = len(y)
		}
		x = indices[:n]
		y = y[:n]
	}

	if len(y) < 2 {
		return 0
	}

	// Constant indices would make the fit undefined; report no trend
	// rather than propagating NaN downstream.
	if allEqual(x) {
		return 0
	}

	_, beta := stat.LinearRegression(x, y, nil, false)
	return beta
}

// Residualize subtracts the control condition's mean from every value.
// With no control it returns the input unchanged.
func Residualize(values, control []float64) []float64 {
	if len(control) == 0 {
		return values
	}

	mean, err := stats.Mean(control)
	if err != nil {
		return values
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - mean
	}
	return out
}

// ClassifyCollapse reports collapse iff eci is strictly below the
// threshold; a value equal to the threshold is not collapse.
func ClassifyCollapse(eci, threshold float64) bool {
	return eci < threshold
}

// CollapseFraction is the fraction of values strictly below the
// threshold, 0 on empty input.
func CollapseFraction(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if v < threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// Summary computes the ECI distribution summary: mean, population
// standard deviation, median, collapse fraction and count. All fields are
// zero on empty input.
func Summary(values []float64, threshold float64) domstats.ECISummary {
	if len(values) == 0 {
		return domstats.ECISummary{}
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	median, _ := stats.Median(values)

	return domstats.ECISummary{
		Mean:             mean,
		Std:              std,
		Median:           median,
		CollapseFraction: CollapseFraction(values, threshold),
		N:                len(values),
	}
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
