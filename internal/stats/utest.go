package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// LocationHypothesis is the alternative hypothesis of a two-sample location
// test, stated for the first sample relative to the second.
type LocationHypothesis int

const (
	LocationLess LocationHypothesis = iota - 1
	LocationDiffers
	LocationGreater
)

// mannWhitneyExactLimit bounds the sample sizes the exact U distribution is
// computed for; beyond it (or with any tie) the normal approximation with
// tie and continuity corrections takes over.
const mannWhitneyExactLimit = 50

// MannWhitneyU runs the Mann-Whitney U test of the null "x and y come from
// the same distribution" against the given alternative and returns the
// p-value. Infinite values take part as extreme ranks, which is how censored
// runs enter comparisons; NaN input is rejected. Two samples whose values
// are all identical carry no evidence and yield p = 1.
func MannWhitneyU(x, y []float64, alt LocationHypothesis) (float64, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return 0, apperr.NewValidation("rank test needs two non-empty samples")
	}
	for _, v := range append(append([]float64(nil), x...), y...) {
		if math.IsNaN(v) {
			return 0, apperr.NewValidation("rank test input contains NaN; resolve censored entries first")
		}
	}

	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)
	merged, labels := labeledMerge(xs, ys)

	// rank sum of the first sample, ties averaged
	r1 := 0.0
	tieRuns, hasTies := 0, false
	for i := 0; i < len(merged); {
		first, nx := i, 0
		v := merged[i]
		for i < len(merged) && merged[i] == v {
			if labels[i] == 1 {
				nx++
			}
			i++
		}
		if nx > 0 {
			rank := float64(first+1+i) / 2
			r1 += rank * float64(nx)
		}
		if i-first > 1 {
			hasTies = true
		}
		tieRuns++
	}
	if tieRuns == 1 {
		return 1, nil
	}

	u1 := r1 - float64(n1*(n1+1))/2

	if !hasTies && n1 <= mannWhitneyExactLimit && n2 <= mannWhitneyExactLimit {
		return exactP(u1, n1, n2, alt), nil
	}
	return normalP(u1, merged, n1, n2, alt), nil
}

func exactP(u1 float64, n1, n2 int, alt LocationHypothesis) float64 {
	d := uDist{M: n1, N: n2}
	switch alt {
	case LocationLess:
		return d.CDF(u1)
	case LocationGreater:
		return 1 - d.CDF(u1-1)
	default:
		u2 := float64(n1*n2) - u1
		if u1 == u2 {
			return 1
		}
		return math.Min(1, 2*d.CDF(math.Min(u1, u2)))
	}
}

func normalP(u1 float64, merged []float64, n1, n2 int, alt LocationHypothesis) float64 {
	t := tieCorrection(merged)
	n := float64(n1 + n2)
	mu := float64(n1*n2) / 2
	sigma := math.Sqrt(float64(n1*n2) * ((n + 1) - t/(n*(n-1))) / 12)
	if sigma == 0 {
		return 1
	}

	switch alt {
	case LocationLess:
		z := (u1 - mu + 0.5) / sigma
		return distuv.UnitNormal.CDF(z)
	case LocationGreater:
		z := (u1 - mu - 0.5) / sigma
		return 1 - distuv.UnitNormal.CDF(z)
	default:
		numer := u1 - mu
		if numer > 0 {
			numer -= 0.5
		} else if numer < 0 {
			numer += 0.5
		}
		z := numer / sigma
		p := distuv.UnitNormal.CDF(z)
		return math.Min(1, 2*math.Min(p, 1-p))
	}
}

// labeledMerge merges two sorted samples, labelling each merged value with
// the sample it came from.
func labeledMerge(x, y []float64) (merged []float64, labels []byte) {
	merged = make([]float64, len(x)+len(y))
	labels = make([]byte, len(x)+len(y))

	i, j, o := 0, 0, 0
	for i < len(x) && j < len(y) {
		if x[i] < y[j] {
			merged[o], labels[o] = x[i], 1
			i++
		} else {
			merged[o], labels[o] = y[j], 2
			j++
		}
		o++
	}
	for ; i < len(x); i++ {
		merged[o], labels[o] = x[i], 1
		o++
	}
	for ; j < len(y); j++ {
		merged[o], labels[o] = y[j], 2
		o++
	}
	return merged, labels
}

// tieCorrection computes sum(t^3 - t) over tie runs for the normal
// approximation's variance.
func tieCorrection(merged []float64) float64 {
	t := 0
	for i := 0; i < len(merged); {
		first, v := i, merged[i]
		for i < len(merged) && merged[i] == v {
			i++
		}
		run := i - first
		t += run*run*run - run
	}
	return float64(t)
}
