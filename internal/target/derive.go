package target

import (
	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Derive builds the default single-column target table for a collection:
// per cell, the largest budget any algorithm consumed (fixed-budget
// comparisons) or the best function value any algorithm reached (fixed-target
// comparisons). Callers may edit the result before ranking with it.
func Derive(c dataset.Collection, o dataset.Orientation) *Table {
	t := NewTable([]string{"target"})

	for _, cell := range c.Cells() {
		members := c.Cell(cell)
		if o == dataset.ByRuntimeBudget {
			var max float64
			for _, d := range members {
				if b := d.MaxBudget(); b > max {
					max = b
				}
			}
			_ = t.Set(cell.Key(), 0, max)
			continue
		}

		maximize := members.Maximize()
		best := members[0].BestValue()
		for _, d := range members[1:] {
			v := d.BestValue()
			if maximize && v > best {
				best = v
			}
			if !maximize && v < best {
				best = v
			}
		}
		_ = t.Set(cell.Key(), 0, best)
	}
	return t
}
