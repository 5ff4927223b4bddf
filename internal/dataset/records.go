package dataset

import (
	"sort"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// RunRecord is one row of the rectangular long-format table the boundary
// layers deliver: a single (evaluation, best value) observation of one run.
type RunRecord struct {
	Algorithm string
	Function  string
	Dimension int
	Run       int
	Eval      int64
	Value     float64
}

type runKey struct {
	alg string
	c   Cell
	run int
}

// FromRecords groups long-format rows into per-run trajectories and
// assembles the collection. Rows may arrive in any order; evaluations are
// sorted per run and duplicate (run, evaluation) rows are rejected. The
// maximize flag applies to the whole table.
func FromRecords(recs []RunRecord, maximize bool) (Collection, error) {
	if len(recs) == 0 {
		return nil, apperr.NewValidation("no run records supplied")
	}

	type point struct {
		eval  int64
		value float64
	}
	traces := make(map[runKey][]point)
	var order []runKey

	for _, rec := range recs {
		if rec.Algorithm == "" || rec.Function == "" {
			return nil, apperr.NewValidation("run record with empty algorithm or function id")
		}
		if rec.Dimension <= 0 {
			return nil, apperr.NewValidationf("run record for %q has non-positive dimension %d", rec.Algorithm, rec.Dimension)
		}
		if rec.Eval <= 0 {
			return nil, apperr.NewValidationf("run record for %q has non-positive evaluation count %d", rec.Algorithm, rec.Eval)
		}
		key := runKey{alg: rec.Algorithm, c: Cell{Function: rec.Function, Dimension: rec.Dimension}, run: rec.Run}
		if _, ok := traces[key]; !ok {
			order = append(order, key)
		}
		traces[key] = append(traces[key], point{eval: rec.Eval, value: rec.Value})
	}

	runs := make(map[runKey]Run, len(traces))
	for _, key := range order {
		pts := traces[key]
		sort.Slice(pts, func(i, j int) bool { return pts[i].eval < pts[j].eval })

		evals := make([]int64, len(pts))
		values := make([]float64, len(pts))
		for i, p := range pts {
			if i > 0 && p.eval == pts[i-1].eval {
				return nil, apperr.NewValidationf("duplicate evaluation %d in run %d of %q on %s", p.eval, key.run, key.alg, key.c.Key())
			}
			evals[i] = p.eval
			values[i] = p.value
		}
		r, err := NewRun(evals, values)
		if err != nil {
			return nil, err
		}
		runs[key] = r
	}

	grouped := make(map[string]map[Cell][]runKey)
	for _, key := range order {
		if grouped[key.alg] == nil {
			grouped[key.alg] = make(map[Cell][]runKey)
		}
		grouped[key.alg][key.c] = append(grouped[key.alg][key.c], key)
	}

	var c Collection
	for alg, cells := range grouped {
		for cell, keys := range cells {
			sort.Slice(keys, func(i, j int) bool { return keys[i].run < keys[j].run })
			ds := &Dataset{
				Algorithm: alg,
				Function:  cell.Function,
				Dimension: cell.Dimension,
				Maximize:  maximize,
				Runs:      make([]Run, 0, len(keys)),
			}
			for _, key := range keys {
				ds.Runs = append(ds.Runs, runs[key])
			}
			c = append(c, ds)
		}
	}
	sort.Slice(c, func(i, j int) bool {
		if c[i].Algorithm != c[j].Algorithm {
			return c[i].Algorithm < c[j].Algorithm
		}
		if c[i].Function != c[j].Function {
			return c[i].Function < c[j].Function
		}
		return c[i].Dimension < c[j].Dimension
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
