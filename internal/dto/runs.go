package dto

import (
	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// RunRow is one observation of the rectangular long-format run table: a
// single (evaluation, best-so-far value) point of one run.
type RunRow struct {
	Algorithm string  `json:"algorithm"`
	Function  string  `json:"function"`
	Dimension int     `json:"dimension"`
	Run       int     `json:"run"`
	Eval      int64   `json:"eval"`
	Value     float64 `json:"value"`
}

// RunsTable is the wire form of a benchmark collection. Maximize applies to
// the whole table.
type RunsTable struct {
	Maximize bool     `json:"maximize"`
	Rows     []RunRow `json:"rows"`
}

// Collection groups the rows into per-run trajectories. Rows may arrive in
// any order; duplicate (run, eval) pairs are rejected.
func (t RunsTable) Collection() (dataset.Collection, error) {
	recs := make([]dataset.RunRecord, len(t.Rows))
	for i, r := range t.Rows {
		recs[i] = dataset.RunRecord{
			Algorithm: r.Algorithm,
			Function:  r.Function,
			Dimension: r.Dimension,
			Run:       r.Run,
			Eval:      r.Eval,
			Value:     r.Value,
		}
	}
	return dataset.FromRecords(recs, t.Maximize)
}
