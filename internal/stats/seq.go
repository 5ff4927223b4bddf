package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
)

// Scale controls the spacing of generated target sequences.
type Scale int

const (
	ScaleAuto Scale = iota
	ScaleLinear
	ScaleLog
)

// ParseScale accepts "auto" (or empty), "linear" and "log".
func ParseScale(s string) (Scale, error) {
	switch s {
	case "", "auto":
		return ScaleAuto, nil
	case "linear":
		return ScaleLinear, nil
	case "log":
		return ScaleLog, nil
	default:
		return ScaleAuto, apperr.NewValidationf("unsupported scale %q, want auto, linear or log", s)
	}
}

// MaxSequencePoints caps generated sequences; downstream aggregation and
// plotting assume bounded vector sizes.
const MaxSequencePoints = 100

const defaultSequencePoints = 10

// logFloor keeps log10 away from zero and near-zero bounds.
const logFloor = 1e-12

// SeqOpts tunes sequence generation. Step takes precedence over Count when
// it fits; under log scale Step is interpreted in log10 units.
type SeqOpts struct {
	Step  float64
	Count int
	Scale Scale
}

// Sequence generates an ordered, deduplicated sequence of targets spanning
// the observed values, clamped to [min(values), max(values)]. The clamped
// bounds are always the first and last elements.
func Sequence(values []float64, from, to float64, o SeqOpts) ([]float64, error) {
	vals := finiteOnly(values)
	if len(vals) == 0 {
		return nil, apperr.NewValidation("sequence needs at least one finite observed value")
	}
	if to <= from {
		return nil, apperr.NewValidationf("sequence bounds: to (%g) must exceed from (%g)", to, from)
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	from = math.Max(from, lo)
	to = math.Min(to, hi)
	if from > to {
		return nil, apperr.NewValidationf("requested range [%g, %g] does not overlap the observed range [%g, %g]", from, to, lo, hi)
	}
	if from == to {
		return []float64{from}, nil
	}

	scale := o.Scale
	if scale == ScaleAuto {
		scale = detectScale(vals, from, to)
	}

	a, b := from, to
	if scale == ScaleLog {
		a = math.Log10(math.Max(from, logFloor))
		b = math.Log10(math.Max(to, logFloor))
	}
	span := b - a

	count := o.Count
	if count <= 0 {
		count = defaultSequencePoints
	}
	if count > MaxSequencePoints {
		count = MaxSequencePoints
	}
	if count < 2 {
		return nil, apperr.NewValidation("sequence count must be at least 2")
	}

	var xs []float64
	switch {
	case o.Step > 0 && o.Step <= span:
		n := int(math.Floor(span/o.Step)) + 1
		if n+1 > MaxSequencePoints {
			// a step this fine would overflow the cap; fall back to
			// evenly spaced points, capped
			if o.Count <= 0 {
				count = MaxSequencePoints
			}
			xs = linspace(a, b, count)
		} else {
			xs = make([]float64, 0, n+1)
			for i := 0; i < n; i++ {
				xs = append(xs, a+float64(i)*o.Step)
			}
			xs = append(xs, b)
		}
	default:
		// step absent or wider than the span
		xs = linspace(a, b, count)
	}

	if scale == ScaleLog {
		for i, x := range xs {
			xs[i] = math.Pow(10, x)
		}
	}
	xs[0] = from
	xs[len(xs)-1] = to
	for i, x := range xs {
		// the 10^log10 round trip can drift a point past a bound by an ulp
		xs[i] = math.Min(math.Max(x, from), to)
	}

	sort.Float64s(xs)
	return dedupe(xs), nil
}

// RuntimeSequence generates a runtime-axis sequence: evaluation counts are
// integers, so every point is rounded to the nearest integer before the
// final deduplication.
func RuntimeSequence(values []float64, from, to float64, o SeqOpts) ([]float64, error) {
	xs, err := Sequence(values, from, to, o)
	if err != nil {
		return nil, err
	}
	for i, x := range xs {
		xs[i] = math.Round(x)
	}
	sort.Float64s(xs)
	return dedupe(xs), nil
}

// detectScale picks log spacing for heavy-tailed value distributions, where
// the mean runs away from the median by more than an order of magnitude.
func detectScale(vals []float64, from, to float64) Scale {
	if from < 0 || to < 0 {
		return ScaleLinear
	}
	mean := stat.Mean(vals, nil)
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if mean <= 0 || median <= 0 {
		return ScaleLinear
	}
	if math.Abs(math.Log10(mean)-math.Log10(median)) > 1 {
		return ScaleLog
	}
	return ScaleLinear
}

func linspace(a, b float64, n int) []float64 {
	xs := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range xs {
		xs[i] = a + float64(i)*step
	}
	xs[n-1] = b
	return xs
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:1]
	for _, x := range sorted[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
