package stats

import (
	"math"
	"math/rand/v2"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// BootstrapRuntimes resamples a runtime-to-target sample under a geometric
// trial model: a run either succeeded (finite runtime) or was censored at
// its budget. With success probability p estimated from the sample, each
// synthetic run burns through N ~ Geometric(p) failed attempts, paying the
// full budget of a randomly chosen censored run for each, and finishes with
// the runtime of a randomly chosen successful run. With zero observed
// successes every resampled value is +Inf. The caller owns the random
// source; the same seed replays the same vector.
func BootstrapRuntimes(sample, maxEvals []float64, size int, rng *rand.Rand) ([]float64, error) {
	if len(sample) == 0 {
		return nil, apperr.NewValidation("bootstrap needs a non-empty sample")
	}
	if len(sample) != len(maxEvals) {
		return nil, apperr.NewValidationf("bootstrap sample has %d runs but %d budgets", len(sample), len(maxEvals))
	}
	if size < 0 {
		return nil, apperr.NewValidationf("bootstrap size must be non-negative, got %d", size)
	}
	if rng == nil {
		return nil, apperr.NewValidation("bootstrap requires a random source")
	}

	var succ, budgets []float64
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			budgets = append(budgets, maxEvals[i])
			continue
		}
		succ = append(succ, v)
	}

	out := make([]float64, size)
	if len(succ) == 0 {
		for i := range out {
			out[i] = math.Inf(1)
		}
		return out, nil
	}

	p := float64(len(succ)) / float64(len(sample))
	for i := range out {
		v := 0.0
		for n := geometric(rng, p); n > 0; n-- {
			v += budgets[rng.IntN(len(budgets))]
		}
		v += succ[rng.IntN(len(succ))]
		out[i] = v
	}
	return out, nil
}

// geometric draws the number of failures before the first success by CDF
// inversion.
func geometric(rng *rand.Rand, p float64) int {
	if p >= 1 {
		return 0
	}
	u := rng.Float64()
	return int(math.Floor(math.Log(1-u) / math.Log(1-p)))
}
