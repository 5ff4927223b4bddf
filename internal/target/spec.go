package target

import (
	"math"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Spec selects the targets an aggregated statistic is evaluated at. Exactly
// three shapes exist: a single scalar applied to every cell, a keyed map of
// per-cell target lists, or a Table.
type Spec interface {
	isSpec()
}

// Scalar applies one target to every cell of the collection.
type Scalar float64

func (Scalar) isSpec() {}

// PerCell maps cell keys ("function;dimension" or single-axis keys) to one or
// more targets for that cell.
type PerCell map[string][]float64

func (PerCell) isSpec() {}

func (*Table) isSpec() {}

// Resolve normalizes any Spec shape into one target list per cell of the
// collection. Key decomposition goes through dataset.ParseCellKey for every
// variant; keys naming cells outside the collection are ignored, but every
// cell of the collection must end up with at least one finite target.
func Resolve(s Spec, c dataset.Collection) (map[dataset.Cell][]float64, error) {
	if len(c) == 0 {
		return nil, apperr.NewValidation("cannot resolve targets for an empty dataset collection")
	}
	if s == nil {
		return nil, apperr.NewValidation("no target specification supplied")
	}

	cells := c.Cells()
	member := make(map[dataset.Cell]struct{}, len(cells))
	for _, cell := range cells {
		member[cell] = struct{}{}
	}

	out := make(map[dataset.Cell][]float64, len(cells))

	switch spec := s.(type) {
	case Scalar:
		if !finite(float64(spec)) {
			return nil, apperr.NewValidation("scalar target must be finite")
		}
		for _, cell := range cells {
			out[cell] = []float64{float64(spec)}
		}

	case PerCell:
		for key, targets := range spec {
			cell, err := dataset.ParseCellKey(key, c)
			if err != nil {
				return nil, err
			}
			if _, ok := member[cell]; !ok {
				continue
			}
			if err := validTargets(key, targets); err != nil {
				return nil, err
			}
			out[cell] = append(out[cell], targets...)
		}

	case *Table:
		for i, key := range spec.Keys {
			cell, err := dataset.ParseCellKey(key, c)
			if err != nil {
				return nil, err
			}
			if _, ok := member[cell]; !ok {
				continue
			}
			if err := validTargets(key, spec.Rows[i]); err != nil {
				return nil, err
			}
			out[cell] = append(out[cell], spec.Rows[i]...)
		}

	default:
		return nil, apperr.NewValidation("unknown target specification shape")
	}

	for _, cell := range cells {
		if len(out[cell]) == 0 {
			return nil, apperr.NewValidationf("no target supplied for cell %s", cell.Key())
		}
	}
	return out, nil
}

func validTargets(key string, targets []float64) error {
	if len(targets) == 0 {
		return apperr.NewValidationf("cell key %q has an empty target list", key)
	}
	for _, v := range targets {
		if !finite(v) {
			return apperr.NewValidationf("cell key %q has a non-finite target", key)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
