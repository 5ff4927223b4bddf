package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection(t *testing.T) Collection {
	t.Helper()
	mk := func(alg, fn string, dim int) *Dataset {
		run, err := NewRun([]int64{1, 10, 100}, []float64{30, 5, 0.2})
		require.NoError(t, err)
		return &Dataset{Algorithm: alg, Function: fn, Dimension: dim, Runs: []Run{run}}
	}
	return Collection{
		mk("cma-es", "f2", 10),
		mk("cma-es", "f1", 5),
		mk("de", "f1", 5),
		mk("de", "f2", 10),
	}
}

func TestCollection_Accessors(t *testing.T) {
	c := testCollection(t)

	assert.Equal(t, []string{"cma-es", "de"}, c.Algorithms())
	assert.Equal(t, []string{"f1", "f2"}, c.Functions())
	assert.Equal(t, []int{5, 10}, c.Dimensions())
	assert.Equal(t, []Cell{{Function: "f1", Dimension: 5}, {Function: "f2", Dimension: 10}}, c.Cells())
}

func TestCollection_CellAndSelect(t *testing.T) {
	c := testCollection(t)

	cell := c.Cell(Cell{Function: "f1", Dimension: 5})
	assert.Len(t, cell, 2)
	assert.Equal(t, []string{"cma-es", "de"}, cell.Algorithms())

	only := c.Select("de", "", 0)
	assert.Len(t, only, 2)
	for _, d := range only {
		assert.Equal(t, "de", d.Algorithm)
	}

	assert.Empty(t, c.Select("unknown", "", 0))
}

func TestCollection_Filter(t *testing.T) {
	c := testCollection(t)

	got := c.Filter([]string{"cma-es"}, nil, []int{10})
	require.Len(t, got, 1)
	assert.Equal(t, "f2", got[0].Function)

	assert.Len(t, c.Filter(nil, nil, nil), 4)
}

func TestCollection_Validate(t *testing.T) {
	run, err := NewRun([]int64{1, 2}, []float64{5, 3})
	require.NoError(t, err)

	t.Run("duplicate dataset", func(t *testing.T) {
		c := Collection{
			{Algorithm: "a", Function: "f1", Dimension: 5, Runs: []Run{run}},
			{Algorithm: "a", Function: "f1", Dimension: 5, Runs: []Run{run}},
		}
		assert.Error(t, c.Validate())
	})

	t.Run("no runs", func(t *testing.T) {
		c := Collection{{Algorithm: "a", Function: "f1", Dimension: 5}}
		assert.Error(t, c.Validate())
	})

	t.Run("mixed orientation in one cell", func(t *testing.T) {
		up, err := NewRun([]int64{1, 2}, []float64{1, 2})
		require.NoError(t, err)
		c := Collection{
			{Algorithm: "a", Function: "f1", Dimension: 5, Runs: []Run{run}},
			{Algorithm: "b", Function: "f1", Dimension: 5, Maximize: true, Runs: []Run{up}},
		}
		assert.Error(t, c.Validate())
	})

	t.Run("non-monotone trajectory", func(t *testing.T) {
		bad, err := NewRun([]int64{1, 2, 3}, []float64{5, 3, 4})
		require.NoError(t, err)
		c := Collection{{Algorithm: "a", Function: "f1", Dimension: 5, Runs: []Run{bad}}}
		assert.Error(t, c.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, testCollection(t).Validate())
	})
}

func TestParseCellKey(t *testing.T) {
	c := testCollection(t)

	tests := []struct {
		name    string
		key     string
		want    Cell
		wantErr bool
	}{
		{name: "composite", key: "f1;5", want: Cell{Function: "f1", Dimension: 5}},
		{name: "composite with spaces", key: "f2; 10", want: Cell{Function: "f2", Dimension: 10}},
		{name: "too many parts", key: "f1;5;9", wantErr: true},
		{name: "dimension not integer", key: "f1;x", wantErr: true},
		{name: "bare key ambiguous on full grid", key: "f1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCellKey(tt.key, c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCellKey_SingleAxis(t *testing.T) {
	c := testCollection(t)

	t.Run("single dimension, bare function key", func(t *testing.T) {
		sub := c.Filter(nil, nil, []int{5})
		got, err := ParseCellKey("f1", sub)
		require.NoError(t, err)
		assert.Equal(t, Cell{Function: "f1", Dimension: 5}, got)
	})

	t.Run("single function, bare dimension key", func(t *testing.T) {
		sub := c.Filter(nil, []string{"f2"}, nil)
		got, err := ParseCellKey("10", sub)
		require.NoError(t, err)
		assert.Equal(t, Cell{Function: "f2", Dimension: 10}, got)

		_, err = ParseCellKey("ten", sub)
		assert.Error(t, err)
	})
}

func TestOrientation_Parse(t *testing.T) {
	o, err := ParseOrientation("by_FV")
	require.NoError(t, err)
	assert.Equal(t, ByFunctionValue, o)
	assert.Equal(t, "by_FV", o.String())

	o, err = ParseOrientation("by_RT")
	require.NoError(t, err)
	assert.Equal(t, ByRuntimeBudget, o)
	assert.Equal(t, "by_RT", o.String())

	_, err = ParseOrientation("by_fv")
	assert.Error(t, err)
}
