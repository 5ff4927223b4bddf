package stats

import (
	"math"
	"sort"
)

// HolmCorrection adjusts a vector of p-values by Holm's step-down method:
// the i-th smallest p-value is scaled by (m - i), running maxima keep the
// adjusted sequence monotone, and everything clamps to 1. NaN entries mark
// untested positions; they are skipped and preserved.
func HolmCorrection(p []float64) []float64 {
	out := make([]float64, len(p))
	var idx []int
	for i, v := range p {
		out[i] = v
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return out
	}

	sort.Slice(idx, func(a, b int) bool { return p[idx[a]] < p[idx[b]] })

	m := len(idx)
	running := 0.0
	for k, i := range idx {
		adj := float64(m-k) * p[i]
		if adj > running {
			running = adj
		}
		out[i] = math.Min(1, running)
	}
	return out
}
