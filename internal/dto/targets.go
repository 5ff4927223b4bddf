package dto

import (
	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/target"
	"github.com/teftimov/IOHanalyzer/pkg/jsonx"
)

// Targets selects comparison targets for an analysis request: a single
// scalar, explicit per-cell lists, or generated sequences. At most one may
// be set; a nil Targets derives the defaults from the data.
type Targets struct {
	Scalar   *float64             `json:"scalar,omitempty"`
	PerCell  map[string][]float64 `json:"per_cell,omitempty"`
	Sequence *Sequence            `json:"sequence,omitempty"`
}

// Sequence tunes generated target sequences. Zero From/To span the whole
// observed range; under log scale Step is in log10 units.
type Sequence struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Step  float64 `json:"step"`
	Count int     `json:"count"`
	Scale string  `json:"scale"`
}

// Spec materializes the selection against a collection.
func (t *Targets) Spec(c dataset.Collection, or dataset.Orientation) (target.Spec, error) {
	if t == nil {
		return target.Derive(c, or), nil
	}

	set := 0
	if t.Scalar != nil {
		set++
	}
	if t.PerCell != nil {
		set++
	}
	if t.Sequence != nil {
		set++
	}
	if set > 1 {
		return nil, apperr.NewValidation("targets: scalar, per_cell and sequence are mutually exclusive")
	}

	switch {
	case t.Scalar != nil:
		return target.Scalar(*t.Scalar), nil
	case t.PerCell != nil:
		return target.PerCell(t.PerCell), nil
	case t.Sequence != nil:
		return experiment.SequenceTargets(c, or, experiment.SequenceSpec{
			From:  t.Sequence.From,
			To:    t.Sequence.To,
			Step:  t.Sequence.Step,
			Count: t.Sequence.Count,
			Scale: t.Sequence.Scale,
		})
	default:
		return target.Derive(c, or), nil
	}
}

// TargetTable is the wire form of the editable target grid. The server never
// stores one; callers own their table and ship it with every request.
type TargetTable struct {
	Columns []string         `json:"columns"`
	Rows    []TargetTableRow `json:"rows"`
}

type TargetTableRow struct {
	Key     string        `json:"key"`
	Targets []jsonx.Float `json:"targets"`
}

// FromTargetTable converts the core grid to its wire form.
func FromTargetTable(t *target.Table) TargetTable {
	out := TargetTable{Columns: t.Columns}
	for i, key := range t.Keys {
		row := TargetTableRow{Key: key, Targets: make([]jsonx.Float, len(t.Rows[i]))}
		for j, v := range t.Rows[i] {
			row.Targets[j] = jsonx.Float(v)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Table rebuilds the core grid. Every row must match the column count.
func (t TargetTable) Table() (*target.Table, error) {
	tbl := target.NewTable(t.Columns)
	for _, row := range t.Rows {
		if len(row.Targets) != len(t.Columns) {
			return nil, apperr.NewValidationf("target table row %q has %d values, want %d", row.Key, len(row.Targets), len(t.Columns))
		}
		for j, v := range row.Targets {
			if err := tbl.Set(row.Key, j, float64(v)); err != nil {
				return nil, err
			}
		}
	}
	return tbl, nil
}
