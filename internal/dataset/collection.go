package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// Cell identifies one (function, dimension) configuration.
type Cell struct {
	Function  string
	Dimension int
}

// Key renders the composite form used by target tables: "function;dimension".
func (c Cell) Key() string {
	return fmt.Sprintf("%s;%d", c.Function, c.Dimension)
}

// Collection is a set of datasets spanning algorithms, functions and
// dimensions.
type Collection []*Dataset

func (c Collection) Algorithms() []string {
	seen := make(map[string]struct{}, len(c))
	var out []string
	for _, d := range c {
		if _, ok := seen[d.Algorithm]; !ok {
			seen[d.Algorithm] = struct{}{}
			out = append(out, d.Algorithm)
		}
	}
	sort.Strings(out)
	return out
}

func (c Collection) Functions() []string {
	seen := make(map[string]struct{}, len(c))
	var out []string
	for _, d := range c {
		if _, ok := seen[d.Function]; !ok {
			seen[d.Function] = struct{}{}
			out = append(out, d.Function)
		}
	}
	sort.Strings(out)
	return out
}

func (c Collection) Dimensions() []int {
	seen := make(map[int]struct{}, len(c))
	var out []int
	for _, d := range c {
		if _, ok := seen[d.Dimension]; !ok {
			seen[d.Dimension] = struct{}{}
			out = append(out, d.Dimension)
		}
	}
	sort.Ints(out)
	return out
}

func (c Collection) Cells() []Cell {
	seen := make(map[Cell]struct{}, len(c))
	var out []Cell
	for _, d := range c {
		cell := d.Cell()
		if _, ok := seen[cell]; !ok {
			seen[cell] = struct{}{}
			out = append(out, cell)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Function != out[j].Function {
			return out[i].Function < out[j].Function
		}
		return out[i].Dimension < out[j].Dimension
	})
	return out
}

// Cell returns the datasets of one (function, dimension) configuration, one
// per algorithm.
func (c Collection) Cell(cell Cell) Collection {
	var out Collection
	for _, d := range c {
		if d.Function == cell.Function && d.Dimension == cell.Dimension {
			out = append(out, d)
		}
	}
	return out
}

// Select filters by algorithm, function and dimension. Empty string or zero
// dimension acts as a wildcard on that axis.
func (c Collection) Select(algorithm, function string, dimension int) Collection {
	var out Collection
	for _, d := range c {
		if algorithm != "" && d.Algorithm != algorithm {
			continue
		}
		if function != "" && d.Function != function {
			continue
		}
		if dimension != 0 && d.Dimension != dimension {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Filter keeps datasets whose axes appear in the given sets; nil or empty
// sets act as wildcards.
func (c Collection) Filter(algorithms, functions []string, dimensions []int) Collection {
	algSet := toSet(algorithms)
	fnSet := toSet(functions)
	dimSet := make(map[int]struct{}, len(dimensions))
	for _, d := range dimensions {
		dimSet[d] = struct{}{}
	}

	var out Collection
	for _, d := range c {
		if len(algSet) > 0 {
			if _, ok := algSet[d.Algorithm]; !ok {
				continue
			}
		}
		if len(fnSet) > 0 {
			if _, ok := fnSet[d.Function]; !ok {
				continue
			}
		}
		if len(dimSet) > 0 {
			if _, ok := dimSet[d.Dimension]; !ok {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

// Maximize reports the orientation flag of the collection's datasets. Only
// meaningful after Validate; mixed cells never pass validation.
func (c Collection) Maximize() bool {
	if len(c) == 0 {
		return false
	}
	return c[0].Maximize
}

// Validate checks the structural invariants: no duplicate
// (algorithm, function, dimension) triple, at least one run per dataset,
// consistent maximization flag within each cell, and monotone best-so-far
// trajectories.
func (c Collection) Validate() error {
	type triple struct {
		alg string
		c   Cell
	}
	seen := make(map[triple]struct{}, len(c))
	cellFlag := make(map[Cell]bool)

	for _, d := range c {
		key := triple{alg: d.Algorithm, c: d.Cell()}
		if _, dup := seen[key]; dup {
			return apperr.NewValidationf("duplicate dataset for algorithm %q on %s", d.Algorithm, d.Cell().Key())
		}
		seen[key] = struct{}{}

		if len(d.Runs) == 0 {
			return apperr.NewValidationf("dataset %q on %s has no runs", d.Algorithm, d.Cell().Key())
		}
		if flag, ok := cellFlag[d.Cell()]; ok {
			if flag != d.Maximize {
				return apperr.NewValidationf("cell %s mixes maximization and minimization datasets", d.Cell().Key())
			}
		} else {
			cellFlag[d.Cell()] = d.Maximize
		}
		for i, r := range d.Runs {
			if !r.monotone(d.Maximize) {
				return apperr.NewValidationf("dataset %q on %s: run %d is not monotone best-so-far", d.Algorithm, d.Cell().Key(), i)
			}
		}
	}
	return nil
}

// ParseCellKey decomposes a target-table key against the collection's axes.
// Accepted shapes: the composite "function;dimension", a bare function name
// when the collection spans a single dimension, or a bare dimension when it
// spans a single function. Anything else is rejected up front.
func ParseCellKey(key string, c Collection) (Cell, error) {
	if strings.Contains(key, ";") {
		parts := strings.Split(key, ";")
		if len(parts) != 2 {
			return Cell{}, apperr.NewValidationf("malformed cell key %q: want \"function;dimension\"", key)
		}
		dim, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Cell{}, apperr.NewValidationWrap(fmt.Sprintf("malformed cell key %q: dimension is not an integer", key), err)
		}
		return Cell{Function: strings.TrimSpace(parts[0]), Dimension: dim}, nil
	}

	dims := c.Dimensions()
	fns := c.Functions()
	switch {
	case len(dims) == 1:
		return Cell{Function: key, Dimension: dims[0]}, nil
	case len(fns) == 1:
		dim, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return Cell{}, apperr.NewValidationWrap(fmt.Sprintf("cell key %q is not a dimension of function %q", key, fns[0]), err)
		}
		return Cell{Function: fns[0], Dimension: dim}, nil
	default:
		return Cell{}, apperr.NewValidationf("ambiguous cell key %q: collection spans %d functions and %d dimensions, use \"function;dimension\"", key, len(fns), len(dims))
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
