package reader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReader_ReadParallel_EmptyInput(t *testing.T) {
	reader := NewCSVReader(strings.NewReader(""))

	_, err := reader.ReadParallel(t.Context(), 2)
	assert.Error(t, err, "a table without a header row cannot be read")
}

func TestCSVReader_ReadParallel(t *testing.T) {
	csvData := `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,80
cma-es,f1,5,1,10,3
ga,f2,10,1,1,60`

	ctx := t.Context()
	reader := NewCSVReader(strings.NewReader(csvData))

	resultsChan, err := reader.ReadParallel(ctx, 2)
	require.NoError(t, err)

	var results []map[string]string
	for res := range resultsChan {
		require.NoError(t, res.Err)
		results = append(results, res.Record)
	}

	assert.Len(t, results, 3)

	// workers race, so check membership rather than order
	assert.Contains(t, results, map[string]string{
		"algorithm": "cma-es",
		"function":  "f1",
		"dimension": "5",
		"run":       "1",
		"eval":      "1",
		"value":     "80",
	})
	assert.Contains(t, results, map[string]string{
		"algorithm": "ga",
		"function":  "f2",
		"dimension": "10",
		"run":       "1",
		"eval":      "1",
		"value":     "60",
	})
}

func TestCSVReader_ReadParallel_RaggedRow(t *testing.T) {
	csvData := `algorithm,function,dimension,run,eval,value
cma-es,f1,5
ga,f2,10,1,1,60`

	reader := NewCSVReader(strings.NewReader(csvData))

	resultsChan, err := reader.ReadParallel(t.Context(), 2)
	require.NoError(t, err)

	var errs, records int
	for res := range resultsChan {
		if res.Err != nil {
			errs++
			continue
		}
		records++
	}

	assert.Equal(t, 1, errs, "the short row surfaces as an error result")
	assert.Equal(t, 1, records, "the read carries on past it")
}

func TestCSVReader_ReadParallel_CancelEarly(t *testing.T) {
	csvData := `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,80
cma-es,f1,5,1,10,3
ga,f2,10,1,1,60`

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	reader := NewCSVReader(strings.NewReader(csvData))

	resultsChan, err := reader.ReadParallel(ctx, 2)
	require.NoError(t, err)

	var results []map[string]string
	for res := range resultsChan {
		require.NoError(t, res.Err)
		results = append(results, res.Record)
		if len(results) == 1 {
			cancel()
			break
		}
	}

	assert.Len(t, results, 1)
}
