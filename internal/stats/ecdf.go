package stats

import (
	"math"
	"sort"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/target"
)

// ECDF is the empirical distribution F(x) = (#samples <= x)/N of a sample
// vector after censoring resolution: censored entries carry probability mass
// at +Inf, so F stays below 1 on the finite axis whenever censoring occurred.
// Immutable once built.
type ECDF struct {
	xs []float64
	ps []float64

	// Min is the smallest finite observed sample, +Inf when there is none.
	Min float64
	// Max is +Inf when any entry was censored, else the largest sample.
	Max float64
	// N counts all samples, censored included.
	N int
	// Censored counts the entries resolved to +Inf.
	Censored int
}

// NewECDF builds the step function over a sample vector. Censored entries
// (NaN or infinite) resolve to +Inf. An empty vector builds the degenerate
// distribution with all mass at +Inf.
func NewECDF(sample []float64) *ECDF {
	finite := make([]float64, 0, len(sample))
	censored := 0
	for _, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			censored++
			continue
		}
		finite = append(finite, v)
	}
	sort.Float64s(finite)

	e := &ECDF{
		Min:      math.Inf(1),
		Max:      math.Inf(1),
		N:        len(sample),
		Censored: censored,
	}
	if len(finite) == 0 {
		return e
	}

	e.Min = finite[0]
	if censored == 0 {
		e.Max = finite[len(finite)-1]
	}

	n := float64(len(sample))
	cum := 0
	for i := 0; i < len(finite); {
		v := finite[i]
		for i < len(finite) && finite[i] == v {
			cum++
			i++
		}
		e.xs = append(e.xs, v)
		e.ps = append(e.ps, float64(cum)/n)
	}
	return e
}

// Eval returns F(x). The +Inf query always sees the full probability mass;
// a NaN query propagates NaN.
func (e *ECDF) Eval(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	if math.IsInf(x, 1) {
		return 1
	}
	i := sort.SearchFloat64s(e.xs, x)
	// SearchFloat64s returns the first index with xs[i] >= x; step functions
	// jump at the sample itself
	if i < len(e.xs) && e.xs[i] == x {
		return e.ps[i]
	}
	if i == 0 {
		return 0
	}
	return e.ps[i-1]
}

// Points exposes the finite support points and their cumulative
// probabilities for plotting and transport.
func (e *ECDF) Points() (xs, ps []float64) {
	xs = append([]float64(nil), e.xs...)
	ps = append([]float64(nil), e.ps...)
	return xs, ps
}

// AggregateECDF pools sample vectors across every dataset of the collection,
// one vector per target of the dataset's cell, into a single distribution.
// ByFunctionValue pools runtime-to-target samples, ByRuntimeBudget pools
// value-at-budget samples. An empty collection yields a nil ECDF and no
// error; callers treat nil as "no data".
func AggregateECDF(c dataset.Collection, spec target.Spec, o dataset.Orientation) (*ECDF, error) {
	if len(c) == 0 {
		return nil, nil
	}
	targets, err := target.Resolve(spec, c)
	if err != nil {
		return nil, err
	}

	var pooled []float64
	for _, d := range c {
		for _, t := range targets[d.Cell()] {
			if o == dataset.ByFunctionValue {
				pooled = append(pooled, d.RuntimeSample(t)...)
			} else {
				pooled = append(pooled, d.ValueSample(t)...)
			}
		}
	}
	return NewECDF(pooled), nil
}
