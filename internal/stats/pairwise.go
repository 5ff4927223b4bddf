package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// DefaultBootstrapSize is the resampling depth pairwise comparisons use when
// the caller does not pick one.
const DefaultBootstrapSize = 30

// PairwiseOpts configures a pairwise significance run.
type PairwiseOpts struct {
	// BootstrapSize > 0 resamples runtime samples under the geometric trial
	// model before testing; 0 tests the raw samples.
	BootstrapSize int
	Orientation   dataset.Orientation
	// Maximize orients fixed-budget comparisons: higher values win when true.
	Maximize bool
	// Rng drives the bootstrap; required when BootstrapSize > 0.
	Rng *rand.Rand
}

// NewPairwiseOpts returns the default fixed-target configuration.
func NewPairwiseOpts() PairwiseOpts {
	return PairwiseOpts{BootstrapSize: DefaultBootstrapSize, Orientation: dataset.ByFunctionValue}
}

// PairwiseTest compares every ordered pair of algorithms through one-sided
// rank tests and returns the Holm-corrected p-value matrix. p[i][j] tests "i
// better than j": stochastically smaller runtime for fixed-target
// comparisons, or the orientation-appropriate side for fixed-budget ones.
// The matrix is asymmetric by construction and its diagonal stays NaN.
//
// samples holds one sample vector per algorithm; maxEvals holds the matching
// per-run budgets and is only consulted when bootstrapping. Degenerate sides
// short-circuit to deterministic p-values instead of failing: an all-censored
// side loses outright (p 1 against its opponent, 0 the other way), two
// all-censored sides tie with mutual p 1.
//
// The pair loop checks ctx between pairs, so a cancelled context aborts
// without a partial matrix.
func PairwiseTest(ctx context.Context, samples, maxEvals [][]float64, o PairwiseOpts) ([][]float64, error) {
	n := len(samples)
	if n < 2 {
		return nil, apperr.NewValidationf("pairwise comparison needs at least 2 algorithms, got %d", n)
	}

	size := o.BootstrapSize
	if size < 0 {
		return nil, apperr.NewValidationf("bootstrap size must be non-negative, got %d", size)
	}
	if o.Orientation == dataset.ByRuntimeBudget && size > 0 {
		slog.Warn("fixed-budget value samples cannot be bootstrapped under the runtime trial model, forcing raw comparison", "requested_size", size)
		size = 0
	}

	work := make([][]float64, n)
	if size > 0 {
		if o.Rng == nil {
			return nil, apperr.NewValidation("bootstrapped pairwise comparison requires a random source")
		}
		if len(maxEvals) != n {
			return nil, apperr.NewValidationf("expected %d budget vectors, got %d", n, len(maxEvals))
		}
		for i, s := range samples {
			bs, err := BootstrapRuntimes(s, maxEvals[i], size, o.Rng)
			if err != nil {
				return nil, fmt.Errorf("bootstrap algorithm %d: %w", i, err)
			}
			work[i] = bs
		}
	} else {
		worst := worstSentinel(o)
		for i, s := range samples {
			if len(s) == 0 {
				return nil, apperr.NewValidationf("algorithm %d has an empty sample", i)
			}
			work[i] = resolveCensored(s, worst)
		}
	}

	better, worse := alternatives(o)
	worst := worstSentinel(o)

	p := make([][]float64, n)
	for i := range p {
		p[i] = make([]float64, n)
		for j := range p[i] {
			p[i][j] = math.NaN()
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			ci, cj := allCensored(work[i], worst), allCensored(work[j], worst)
			switch {
			case ci && cj:
				p[i][j], p[j][i] = 1, 1
			case ci:
				p[i][j], p[j][i] = 1, 0
			case cj:
				p[i][j], p[j][i] = 0, 1
			default:
				pij, err := MannWhitneyU(work[i], work[j], better)
				if err != nil {
					return nil, fmt.Errorf("rank test pair (%d, %d): %w", i, j, err)
				}
				pji, err := MannWhitneyU(work[i], work[j], worse)
				if err != nil {
					return nil, fmt.Errorf("rank test pair (%d, %d): %w", j, i, err)
				}
				p[i][j], p[j][i] = pij, pji
			}
		}
	}

	flat := make([]float64, 0, n*n)
	for i := range p {
		flat = append(flat, p[i]...)
	}
	flat = HolmCorrection(flat)
	for i := range p {
		copy(p[i], flat[i*n:(i+1)*n])
	}
	return p, nil
}

// alternatives maps the comparison mode onto the rank-test hypotheses for
// "first sample better" and "first sample worse".
func alternatives(o PairwiseOpts) (better, worse LocationHypothesis) {
	if o.Orientation == dataset.ByRuntimeBudget && o.Maximize {
		return LocationGreater, LocationLess
	}
	return LocationLess, LocationGreater
}

// worstSentinel is the rank a censored or missing entry takes: unbounded
// runtime for fixed-target comparisons, the losing extreme of the value axis
// for fixed-budget ones.
func worstSentinel(o PairwiseOpts) float64 {
	if o.Orientation == dataset.ByRuntimeBudget && o.Maximize {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// resolveCensored substitutes the worst-rank sentinel for censored entries,
// mirroring the resolution the distribution builder applies.
func resolveCensored(sample []float64, worst float64) []float64 {
	out := make([]float64, len(sample))
	for i, v := range sample {
		if math.IsNaN(v) {
			out[i] = worst
			continue
		}
		out[i] = v
	}
	return out
}

func allCensored(sample []float64, worst float64) bool {
	for _, v := range sample {
		if v != worst && !math.IsNaN(v) {
			return false
		}
	}
	return true
}
