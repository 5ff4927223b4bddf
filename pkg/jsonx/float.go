// Package jsonx carries JSON encoding helpers for statistical payloads,
// where NaN and infinities are legitimate values that encoding/json refuses
// to serialize.
package jsonx

import (
	"encoding/json"
	"math"
)

// Float is a float64 that marshals non-finite values as null. Clients read
// null as "censored or untested", which is exactly what NaN and the infinite
// sentinels mean in result payloads.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Floats converts a sample vector.
func Floats(xs []float64) []Float {
	out := make([]Float, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Matrix converts a p-value matrix.
func Matrix(m [][]float64) [][]Float {
	out := make([][]Float, len(m))
	for i, row := range m {
		out[i] = Floats(row)
	}
	return out
}
