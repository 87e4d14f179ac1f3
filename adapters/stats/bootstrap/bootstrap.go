// Package bootstrap estimates ranking metrics with percentile-bootstrap
// confidence intervals.
//
// Every estimator is deterministic for a fixed (data, resamples, seed,
// alpha) tuple: a generator seeded per call draws all resample indices
// sequentially before any statistic is evaluated, so parallel evaluation
// cannot change which indices belong to resample k. Resamples that contain
// a single label class are discarded without redrawing; the percentile step
// then runs over fewer than B statistics. That undercount is part of the
// published confidence intervals and is deliberately not compensated.
package bootstrap

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	domstats "entropynull/domain/stats"
)

const (
	// DefaultResamples is the bootstrap resample count used for the paper.
	DefaultResamples = 1000
	// DefaultSeed seeds the per-call generator.
	DefaultSeed = 42
	// DefaultAlpha yields 95% confidence intervals.
	DefaultAlpha = 0.05
)

// Options parameterizes one bootstrap invocation.
type Options struct {
	Resamples int
	Seed      int64
	Alpha     float64
}

// DefaultOptions returns the paper's parameters.
func DefaultOptions() Options {
	return Options{Resamples: DefaultResamples, Seed: DefaultSeed, Alpha: DefaultAlpha}
}

func (o Options) normalized() Options {
	if o.Resamples <= 0 {
		o.Resamples = DefaultResamples
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = DefaultAlpha
	}
	return o
}

// ROCAUC computes ROC-AUC with a bootstrap confidence interval. A sample
// that is empty or single-class returns the neutral (0.5, 0.5, 0.5).
func ROCAUC(ctx context.Context, labels []int, scores []float64, opts Options) domstats.Interval {
	return bootstrapMetric(ctx, labels, scores, opts, RankAUC, func([]int) float64 { return 0.5 })
}

// PRAUC computes average precision with a bootstrap confidence interval.
// The neutral value for a degenerate sample is the label prevalence
// (0.5 when the sample is empty).
func PRAUC(ctx context.Context, labels []int, scores []float64, opts Options) domstats.Interval {
	return bootstrapMetric(ctx, labels, scores, opts, AveragePrecision, prevalence)
}

// bootstrapMetric runs the shared protocol: neutral guard, closed-form
// point estimate, B seeded resamples with single-class discards, then
// empirical percentile bounds.
func bootstrapMetric(
	ctx context.Context,
	labels []int,
	scores []float64,
	opts Options,
	metric func([]int, []float64) (float64, error),
	neutral func([]int) float64,
) domstats.Interval {
	opts = opts.normalized()

	nPos, nNeg := classCounts(labels)
	if len(labels) == 0 || nPos == 0 || nNeg == 0 {
		return domstats.Point(neutral(labels))
	}

	base, err := metric(labels, scores)
	if err != nil {
		return domstats.Point(neutral(labels))
	}

	draws := drawIndexSets(opts.Seed, opts.Resamples, len(labels))

	values := make([]float64, opts.Resamples)
	valid := make([]bool, opts.Resamples)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range draws {
		g.Go(func() error {
			bootLabels := make([]int, len(labels))
			bootScores := make([]float64, len(scores))
			for j, idx := range draws[k] {
				bootLabels[j] = labels[idx]
				bootScores[j] = scores[idx]
			}
			v, err := metric(bootLabels, bootScores)
			if err != nil {
				return nil // single-class resample: discarded, not redrawn
			}
			values[k] = v
			valid[k] = true
			return nil
		})
	}
	_ = g.Wait()

	// Collect in resample order so the percentile input is deterministic.
	kept := values[:0:0]
	for k, ok := range valid {
		if ok {
			kept = append(kept, values[k])
		}
	}
	if len(kept) == 0 {
		return domstats.Point(base)
	}

	return domstats.Interval{
		Estimate: base,
		Lower:    percentile(kept, opts.Alpha/2*100),
		Upper:    percentile(kept, (1-opts.Alpha/2)*100),
	}
}

// ResampleCI is the generic percentile bootstrap for an arbitrary scalar
// reducer. Unlike the AUC estimators there is no single-class concept, so
// every resample counts. Returns (0, 0) on empty input.
func ResampleCI(ctx context.Context, values []float64, stat func([]float64) float64, opts Options) (lower, upper float64) {
	opts = opts.normalized()
	if len(values) == 0 {
		return 0, 0
	}

	draws := drawIndexSets(opts.Seed, opts.Resamples, len(values))

	boot := make([]float64, opts.Resamples)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := range draws {
		g.Go(func() error {
			resample := make([]float64, len(values))
			for j, idx := range draws[k] {
				resample[j] = values[idx]
			}
			boot[k] = stat(resample)
			return nil
		})
	}
	_ = g.Wait()

	return percentile(boot, opts.Alpha/2*100), percentile(boot, (1-opts.Alpha/2)*100)
}

// Mean is the default reducer for ResampleCI.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// drawIndexSets consumes the seeded generator sequentially for exactly
// resamples*n draws, regardless of how many resamples later survive.
func drawIndexSets(seed int64, resamples, n int) [][]int {
	rng := rand.New(rand.NewSource(seed))
	draws := make([][]int, resamples)
	for k := range draws {
		idx := make([]int, n)
		for j := range idx {
			idx[j] = rng.Intn(n)
		}
		draws[k] = idx
	}
	return draws
}

// percentile returns the p-th percentile (0-100) with linear interpolation
// between order statistics: rank = p/100 * (n-1) over the sorted values.
func percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
