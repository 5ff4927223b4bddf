package stats

import (
	"math"
	"sort"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// AUC integrates the ECDF over [from, to] and normalizes by the interval
// width. The integrand is piecewise constant with known breakpoints, so the
// integral is the exact sum of F(x)*dx over the steps inside the interval.
// A nil ECDF contributes zero. Bounds must be finite with to > from; a
// censored distribution has Max = +Inf, so callers integrating over the
// default bounds must pick a finite horizon themselves.
func AUC(e *ECDF, from, to float64) (float64, error) {
	if e == nil {
		return 0, nil
	}
	if math.IsNaN(from) || math.IsInf(from, 0) || math.IsNaN(to) || math.IsInf(to, 0) {
		return 0, apperr.NewValidationf("auc bounds must be finite, got [%g, %g]", from, to)
	}
	if to <= from {
		return 0, apperr.NewValidationf("auc bounds: to (%g) must exceed from (%g)", to, from)
	}

	total := 0.0
	prev := from
	f := e.Eval(from)

	// first support point strictly beyond from
	i := sort.SearchFloat64s(e.xs, from)
	if i < len(e.xs) && e.xs[i] == from {
		i++
	}
	for ; i < len(e.xs) && e.xs[i] <= to; i++ {
		total += f * (e.xs[i] - prev)
		prev = e.xs[i]
		f = e.ps[i]
	}
	total += f * (to - prev)

	return total / (to - from), nil
}

// AUCFull integrates over the distribution's own [Min, Max] range.
func AUCFull(e *ECDF) (float64, error) {
	if e == nil {
		return 0, nil
	}
	return AUC(e, e.Min, e.Max)
}
