package bootstrap

import (
	"errors"
	"sort"
)

// ErrDegenerate marks a labeled sample that cannot support a ranking
// metric: empty, or containing only one label class.
var ErrDegenerate = errors.New("degenerate sample: both label classes required")

// RankAUC computes ROC-AUC through the rank-sum identity:
//
//	AUC = (R+ - n+(n+ + 1)/2) / (n+ * n-)
//
// where R+ is the sum of score ranks over the positive class. Tied scores
// receive the average of the ranks they span, so tied positive/negative
// pairs contribute exactly 1/2.
func RankAUC(labels []int, scores []float64) (float64, error) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		return 0, ErrDegenerate
	}

	ranks := tiedRanks(scores)

	sumPos := 0.0
	for i, y := range labels {
		if y == 1 {
			sumPos += ranks[i]
		}
	}

	p := float64(nPos)
	return (sumPos - p*(p+1)/2) / (p * float64(nNeg)), nil
}

// AveragePrecision computes PR-AUC as the step-function integral
// sum_k (recall_k - recall_{k-1}) * precision_k, with one step per
// distinct score threshold taken in decreasing order. Samples sharing a
// score enter the confusion counts together, which is the tie rule the
// step integration is defined against.
func AveragePrecision(labels []int, scores []float64) (float64, error) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		return 0, ErrDegenerate
	}

	order := descendingOrder(scores)

	ap := 0.0
	tp, fp := 0, 0
	prevRecall := 0.0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(nPos)
		ap += (recall - prevRecall) * precision
		prevRecall = recall
		i = j
	}

	return ap, nil
}

// ROCCurvePoints returns index-aligned false/true positive rates with one
// point per distinct threshold, beginning at (0,0). Degenerate input
// degrades to the fixed two-point diagonal so downstream panels always
// render.
func ROCCurvePoints(labels []int, scores []float64) (fpr, tpr []float64) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		return []float64{0, 1}, []float64{0, 1}
	}

	order := descendingOrder(scores)

	fpr = []float64{0}
	tpr = []float64{0}
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		fpr = append(fpr, float64(fp)/float64(nNeg))
		tpr = append(tpr, float64(tp)/float64(nPos))
		i = j
	}

	return fpr, tpr
}

// PRCurvePoints returns index-aligned precision/recall coordinates ordered
// from the loosest threshold to the strictest, terminated by the
// conventional (precision=1, recall=0) endpoint. Degenerate input degrades
// to a flat line at label prevalence.
func PRCurvePoints(labels []int, scores []float64) (precision, recall []float64) {
	nPos, nNeg := classCounts(labels)
	if nPos == 0 || nNeg == 0 {
		prev := prevalence(labels)
		return []float64{prev, prev}, []float64{0, 1}
	}

	order := descendingOrder(scores)

	var revPrec, revRec []float64
	tp, fp := 0, 0
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		revPrec = append(revPrec, float64(tp)/float64(tp+fp))
		revRec = append(revRec, float64(tp)/float64(nPos))
		i = j
	}

	// Strictest threshold first, then the (1, 0) terminator.
	for i := len(revPrec) - 1; i >= 0; i-- {
		precision = append(precision, revPrec[i])
		recall = append(recall, revRec[i])
	}
	precision = append(precision, 1)
	recall = append(recall, 0)

	return precision, recall
}

// tiedRanks converts values to 1-based ranks, assigning tied values the
// average rank of their group.
func tiedRanks(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && values[order[j]] == values[order[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	return ranks
}

func descendingOrder(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

func classCounts(labels []int) (pos, neg int) {
	for _, y := range labels {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	return pos, neg
}

func prevalence(labels []int) float64 {
	if len(labels) == 0 {
		return 0.5
	}
	pos, _ := classCounts(labels)
	return float64(pos) / float64(len(labels))
}
