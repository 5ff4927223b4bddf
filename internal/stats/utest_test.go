package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDist_SmallSamplePMF(t *testing.T) {
	// two against two: U takes {0..4} with probabilities (1,1,2,1,1)/6
	d := uDist{M: 2, N: 2}

	want := []float64{1.0 / 6, 1.0 / 6, 1.0 / 3, 1.0 / 6, 1.0 / 6}
	got := d.pmf()
	require.Len(t, got, 5)
	for u := range want {
		assert.InDelta(t, want[u], got[u], 1e-15, "P(U=%d)", u)
	}
}

func TestUDist_SingleObservations(t *testing.T) {
	d := uDist{M: 1, N: 1}

	got := d.pmf()
	assert.InDelta(t, 0.5, got[0], 1e-15)
	assert.InDelta(t, 0.5, got[1], 1e-15)
}

func TestUDist_CDF(t *testing.T) {
	d := uDist{M: 2, N: 2}

	tests := []struct {
		u    float64
		want float64
	}{
		{u: -1, want: 0},
		{u: 0, want: 1.0 / 6},
		{u: 1, want: 1.0 / 3},
		{u: 2, want: 2.0 / 3},
		{u: 3, want: 5.0 / 6},
		{u: 4, want: 1},
		{u: 100, want: 1},
		{u: 2.5, want: 2.0 / 3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, d.CDF(tt.u), 1e-15, "CDF(%g)", tt.u)
	}
}

func TestUDist_SumsToOne(t *testing.T) {
	d := uDist{M: 7, N: 9}

	sum := 0.0
	for _, p := range d.pmf() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestMannWhitneyU_ExactSeparated(t *testing.T) {
	x := []float64{1, 2}
	y := []float64{3, 4}

	pLess, err := MannWhitneyU(x, y, LocationLess)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, pLess, 1e-12)

	pGreater, err := MannWhitneyU(x, y, LocationGreater)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pGreater, 1e-12)

	pDiffers, err := MannWhitneyU(x, y, LocationDiffers)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, pDiffers, 1e-12)
}

func TestMannWhitneyU_ExactSymmetry(t *testing.T) {
	pGreater, err := MannWhitneyU([]float64{3, 4}, []float64{1, 2}, LocationGreater)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/6, pGreater, 1e-12, "mirrors P(less) of the swapped samples")
}

func TestMannWhitneyU_ExactFiveAgainstFive(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{6, 7, 8, 9, 10}

	pLess, err := MannWhitneyU(x, y, LocationLess)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/252, pLess, 1e-12, "one of C(10,5) orderings")

	pDiffers, err := MannWhitneyU(x, y, LocationDiffers)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/252, pDiffers, 1e-12)
}

func TestMannWhitneyU_ExactInterleaved(t *testing.T) {
	p, err := MannWhitneyU([]float64{1, 3}, []float64{2, 4}, LocationDiffers)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, p, 1e-12)
}

func TestMannWhitneyU_TiesUseNormalApproximation(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	y := []float64{100, 100, 100, 100, 100}

	pLess, err := MannWhitneyU(x, y, LocationLess)
	require.NoError(t, err)
	assert.InDelta(t, 0.00199, pLess, 1e-4)

	pGreater, err := MannWhitneyU(x, y, LocationGreater)
	require.NoError(t, err)
	assert.InDelta(t, 0.99910, pGreater, 1e-4)

	pDiffers, err := MannWhitneyU(x, y, LocationDiffers)
	require.NoError(t, err)
	assert.InDelta(t, 0.00398, pDiffers, 1e-4)
}

func TestMannWhitneyU_AllValuesTied(t *testing.T) {
	for _, alt := range []LocationHypothesis{LocationLess, LocationDiffers, LocationGreater} {
		p, err := MannWhitneyU([]float64{7, 7}, []float64{7, 7, 7}, alt)
		require.NoError(t, err)
		assert.Equal(t, 1.0, p, "identical samples carry no evidence")
	}
}

func TestMannWhitneyU_LargeSamplesUseNormalApproximation(t *testing.T) {
	x := make([]float64, 51)
	y := make([]float64, 51)
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = float64(i + 52)
	}

	pLess, err := MannWhitneyU(x, y, LocationLess)
	require.NoError(t, err)
	assert.Less(t, pLess, 1e-10)

	pGreater, err := MannWhitneyU(x, y, LocationGreater)
	require.NoError(t, err)
	assert.Greater(t, pGreater, 1-1e-10)
}

func TestMannWhitneyU_InfiniteValuesRankExtreme(t *testing.T) {
	// censored entries resolved to +Inf lose against every finite value
	x := []float64{1, 2, 3}
	y := []float64{4, 5, math.Inf(1)}

	p, err := MannWhitneyU(x, y, LocationLess)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/20, p, 1e-12, "x occupies the three lowest ranks")
}

func TestMannWhitneyU_Rejections(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
	}{
		{name: "empty first sample", x: nil, y: []float64{1}},
		{name: "empty second sample", x: []float64{1}, y: nil},
		{name: "nan input", x: []float64{1, math.NaN()}, y: []float64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MannWhitneyU(tt.x, tt.y, LocationDiffers)
			assert.Error(t, err)
		})
	}
}
