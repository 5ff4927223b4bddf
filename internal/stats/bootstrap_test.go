package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapRuntimes_AllCensored(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	got, err := BootstrapRuntimes([]float64{math.NaN(), math.Inf(1)}, []float64{100, 200}, 7, rng)
	require.NoError(t, err)

	require.Len(t, got, 7)
	for i, v := range got {
		assert.True(t, math.IsInf(v, 1), "index %d", i)
	}
}

func TestBootstrapRuntimes_NoCensoringDrawsFromSample(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	got, err := BootstrapRuntimes([]float64{5, 6}, []float64{100, 100}, 50, rng)
	require.NoError(t, err)

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Contains(t, []float64{5, 6}, v, "index %d: success probability 1 leaves no room for failed attempts", i)
	}
}

func TestBootstrapRuntimes_CensoredAttemptsPayFullBudgets(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	// one success at 10, one run censored at budget 50: every resampled value
	// is 10 plus a whole number of burned 50-evaluation budgets
	got, err := BootstrapRuntimes([]float64{10, math.NaN()}, []float64{50, 50}, 200, rng)
	require.NoError(t, err)

	sawRestart := false
	for i, v := range got {
		require.GreaterOrEqual(t, v, 10.0, "index %d", i)
		assert.Zero(t, math.Mod(v-10, 50), "index %d: %g", i, v)
		if v > 10 {
			sawRestart = true
		}
	}
	assert.True(t, sawRestart, "with p=0.5 some of 200 draws burn at least one budget")
}

func TestBootstrapRuntimes_Deterministic(t *testing.T) {
	sample := []float64{10, 25, math.NaN(), 40}
	budgets := []float64{100, 100, 100, 100}

	first, err := BootstrapRuntimes(sample, budgets, 30, rand.New(rand.NewPCG(7, 8)))
	require.NoError(t, err)
	second, err := BootstrapRuntimes(sample, budgets, 30, rand.New(rand.NewPCG(7, 8)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBootstrapRuntimes_ZeroSize(t *testing.T) {
	got, err := BootstrapRuntimes([]float64{1}, []float64{10}, 0, rand.New(rand.NewPCG(9, 10)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBootstrapRuntimes_Rejections(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))

	tests := []struct {
		name     string
		sample   []float64
		maxEvals []float64
		size     int
		rng      *rand.Rand
	}{
		{name: "empty sample", sample: nil, maxEvals: nil, size: 1, rng: rng},
		{name: "length mismatch", sample: []float64{1, 2}, maxEvals: []float64{10}, size: 1, rng: rng},
		{name: "negative size", sample: []float64{1}, maxEvals: []float64{10}, size: -1, rng: rng},
		{name: "nil rng", sample: []float64{1}, maxEvals: []float64{10}, size: 1, rng: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BootstrapRuntimes(tt.sample, tt.maxEvals, tt.size, tt.rng)
			assert.Error(t, err)
		})
	}
}
