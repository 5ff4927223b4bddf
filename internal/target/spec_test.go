package target

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

func gridCollection(t *testing.T) dataset.Collection {
	t.Helper()
	mk := func(alg, fn string, dim int, final float64) *dataset.Dataset {
		run, err := dataset.NewRun([]int64{1, 10, 100}, []float64{100, 10, final})
		require.NoError(t, err)
		return &dataset.Dataset{Algorithm: alg, Function: fn, Dimension: dim, Runs: []dataset.Run{run}}
	}
	return dataset.Collection{
		mk("a", "f1", 5, 0.5),
		mk("b", "f1", 5, 2),
		mk("a", "f2", 10, 1),
		mk("b", "f2", 10, 0.1),
	}
}

func TestResolve_Scalar(t *testing.T) {
	c := gridCollection(t)

	got, err := Resolve(Scalar(1e-8), c)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{1e-8}, got[dataset.Cell{Function: "f1", Dimension: 5}])
	assert.Equal(t, []float64{1e-8}, got[dataset.Cell{Function: "f2", Dimension: 10}])
}

func TestResolve_PerCell(t *testing.T) {
	c := gridCollection(t)

	spec := PerCell{
		"f1;5":  {1, 0.5},
		"f2;10": {2},
	}
	got, err := Resolve(spec, c)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, got[dataset.Cell{Function: "f1", Dimension: 5}])
	assert.Equal(t, []float64{2}, got[dataset.Cell{Function: "f2", Dimension: 10}])
}

func TestResolve_Table(t *testing.T) {
	c := gridCollection(t)

	tab := NewTable([]string{"easy", "hard"})
	require.NoError(t, tab.Set("f1;5", 0, 10))
	require.NoError(t, tab.Set("f1;5", 1, 0.6))
	require.NoError(t, tab.Set("f2;10", 0, 5))
	require.NoError(t, tab.Set("f2;10", 1, 0.2))

	got, err := Resolve(tab, c)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 0.6}, got[dataset.Cell{Function: "f1", Dimension: 5}])
	assert.Equal(t, []float64{5, 0.2}, got[dataset.Cell{Function: "f2", Dimension: 10}])
}

func TestResolve_Errors(t *testing.T) {
	c := gridCollection(t)

	tests := []struct {
		name string
		spec Spec
		coll dataset.Collection
	}{
		{name: "nil spec", spec: nil, coll: c},
		{name: "empty collection", spec: Scalar(1), coll: nil},
		{name: "non-finite scalar", spec: Scalar(math.Inf(1)), coll: c},
		{name: "malformed key", spec: PerCell{"f1;x": {1}, "f2;10": {1}}, coll: c},
		{name: "bare key on two-axis grid", spec: PerCell{"f1": {1}}, coll: c},
		{name: "missing cell", spec: PerCell{"f1;5": {1}}, coll: c},
		{name: "empty target list", spec: PerCell{"f1;5": {}, "f2;10": {1}}, coll: c},
		{name: "NaN target", spec: PerCell{"f1;5": {math.NaN()}, "f2;10": {1}}, coll: c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.spec, tt.coll)
			assert.Error(t, err)
		})
	}
}

func TestResolve_IgnoresRowsOutsideCollection(t *testing.T) {
	c := gridCollection(t)

	spec := PerCell{
		"f1;5":  {1},
		"f2;10": {1},
		"f9;99": {1}, // not part of the collection, tolerated
	}
	got, err := Resolve(spec, c)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
