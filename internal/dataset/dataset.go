package dataset

// Dataset groups the runs of one algorithm on one (function, dimension)
// configuration.
type Dataset struct {
	Algorithm string
	Function  string
	Dimension int
	Maximize  bool
	Runs      []Run
}

func (d *Dataset) Cell() Cell {
	return Cell{Function: d.Function, Dimension: d.Dimension}
}

// RuntimeSample extracts runtime-to-target per run. Censored runs (target
// never reached) contribute NaN; run count is always preserved.
func (d *Dataset) RuntimeSample(target float64) []float64 {
	out := make([]float64, len(d.Runs))
	for i, r := range d.Runs {
		out[i] = r.RuntimeTo(target, d.Maximize)
	}
	return out
}

// ValueSample extracts best-value-at-budget per run.
func (d *Dataset) ValueSample(budget float64) []float64 {
	out := make([]float64, len(d.Runs))
	for i, r := range d.Runs {
		out[i] = r.ValueAt(budget)
	}
	return out
}

// MaxBudgets returns the consumed budget of every run, aligned with the
// sample vectors. The significance tester resamples censored runs from this
// pool.
func (d *Dataset) MaxBudgets() []float64 {
	out := make([]float64, len(d.Runs))
	for i, r := range d.Runs {
		out[i] = float64(r.MaxEvals())
	}
	return out
}

// MaxBudget is the largest budget any run consumed.
func (d *Dataset) MaxBudget() float64 {
	var max float64
	for _, r := range d.Runs {
		if b := float64(r.MaxEvals()); b > max {
			max = b
		}
	}
	return max
}

// BestValue is the orientation-appropriate extreme value reached across all
// runs at unbounded budget.
func (d *Dataset) BestValue() float64 {
	best := d.Runs[0].FinalValue()
	for _, r := range d.Runs[1:] {
		v := r.FinalValue()
		if d.Maximize && v > best {
			best = v
		}
		if !d.Maximize && v < best {
			best = v
		}
	}
	return best
}
