package jsonx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_MarshalNonFinite(t *testing.T) {
	raw, err := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1))})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null, null, null]`, string(raw))
}

func TestFloat_UnmarshalNull(t *testing.T) {
	var got []Float
	require.NoError(t, json.Unmarshal([]byte(`[2.5, null]`), &got))

	require.Len(t, got, 2)
	assert.Equal(t, Float(2.5), got[0])
	assert.True(t, math.IsNaN(float64(got[1])))
}

func TestMatrix(t *testing.T) {
	m := Matrix([][]float64{{math.NaN(), 0.5}, {1, math.Inf(1)}})

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `[[null, 0.5], [1, null]]`, string(raw))
}
