package dataset

import (
	"math"
	"sort"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// Run is the recorded trajectory of one algorithm execution: evaluation
// counts paired with the best objective value seen so far. Immutable once
// built.
type Run struct {
	Evals  []int64
	Values []float64
}

func NewRun(evals []int64, values []float64) (Run, error) {
	if len(evals) == 0 {
		return Run{}, apperr.NewValidation("run has no recorded evaluations")
	}
	if len(evals) != len(values) {
		return Run{}, apperr.NewValidationf("run has %d evaluations but %d values", len(evals), len(values))
	}
	for i := 1; i < len(evals); i++ {
		if evals[i] <= evals[i-1] {
			return Run{}, apperr.NewValidationf("evaluation counts must strictly increase, got %d after %d", evals[i], evals[i-1])
		}
	}
	return Run{Evals: evals, Values: values}, nil
}

// RuntimeTo returns the first evaluation count at which the run's best value
// reaches target: <= target when minimizing, >= target when maximizing.
// Returns NaN when the run never reaches it (censored).
func (r Run) RuntimeTo(target float64, maximize bool) float64 {
	for i, v := range r.Values {
		if reached(v, target, maximize) {
			return float64(r.Evals[i])
		}
	}
	return math.NaN()
}

// ValueAt returns the best value held at the given evaluation budget: the
// value of the last recorded evaluation <= budget, the final value past the
// end of the trajectory, and NaN before the first recorded evaluation.
func (r Run) ValueAt(budget float64) float64 {
	if budget < float64(r.Evals[0]) {
		return math.NaN()
	}
	// first index with eval > budget; the answer sits just before it
	i := sort.Search(len(r.Evals), func(i int) bool {
		return float64(r.Evals[i]) > budget
	})
	return r.Values[i-1]
}

// MaxEvals is the budget the run consumed.
func (r Run) MaxEvals() int64 {
	return r.Evals[len(r.Evals)-1]
}

// FinalValue is the best value the run ever reached.
func (r Run) FinalValue() float64 {
	return r.Values[len(r.Values)-1]
}

func (r Run) monotone(maximize bool) bool {
	for i := 1; i < len(r.Values); i++ {
		if maximize && r.Values[i] < r.Values[i-1] {
			return false
		}
		if !maximize && r.Values[i] > r.Values[i-1] {
			return false
		}
	}
	return true
}

func reached(value, target float64, maximize bool) bool {
	if maximize {
		return value >= target
	}
	return value <= target
}
