package collector

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/ingest/reader"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
)

const runTable = `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,80
cma-es,f1,5,1,10,3
cma-es,f1,5,2,1,90
ga,f2,10,1,1,60
`

func collect(t *testing.T, table string, maximize bool) []Result[*dataset.Dataset] {
	t.Helper()

	rc := NewRunCollector(
		reader.NewCSVReader(strings.NewReader(table)),
		reader.NewRunMapper(runmapping.Default()),
		maximize,
	)
	ch, err := rc.Collect(t.Context())
	require.NoError(t, err)

	var out []Result[*dataset.Dataset]
	for res := range ch {
		out = append(out, res)
	}
	return out
}

func TestRunCollector_Collect(t *testing.T) {
	results := collect(t, runTable, false)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
	}

	// datasets come out sorted by algorithm, function, dimension
	first := results[0].Result
	assert.Equal(t, "cma-es", first.Algorithm)
	assert.Equal(t, "f1", first.Function)
	assert.Len(t, first.Runs, 2, "the two run indices regroup into two trajectories")
	assert.False(t, first.Maximize)

	second := results[1].Result
	assert.Equal(t, "ga", second.Algorithm)
	assert.Equal(t, 10, second.Dimension)
}

func TestRunCollector_CollectMaximize(t *testing.T) {
	table := `algorithm,function,dimension,run,eval,value
ga,f1,5,1,1,10
ga,f1,5,1,9,55
`
	results := collect(t, table, true)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Result.Maximize)
}

func TestRunCollector_CollectAbortsOnBadValue(t *testing.T) {
	table := `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,fast
`
	results := collect(t, table, false)
	require.Len(t, results, 1, "the first bad row ends the collection")

	var verr *apperr.ValidationError
	require.ErrorAs(t, results[0].Err, &verr)
	assert.ErrorContains(t, results[0].Err, "want a number")
}

func TestRunCollector_CollectAbortsOnRaggedRow(t *testing.T) {
	table := `algorithm,function,dimension,run,eval,value
cma-es,f1,5
`
	results := collect(t, table, false)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "malformed run table")
	assert.True(t, apperr.IsValidation(results[0].Err))
}

func TestRunCollector_CollectEmptyTable(t *testing.T) {
	results := collect(t, "algorithm,function,dimension,run,eval,value\n", false)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "no run records supplied")
}

func TestRunCollector_CollectDuplicateEvalRejected(t *testing.T) {
	table := `algorithm,function,dimension,run,eval,value
ga,f1,5,1,7,10
ga,f1,5,1,7,9
`
	results := collect(t, table, false)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "duplicate evaluation")
}

func TestRunCollector_CollectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	rc := NewRunCollector(
		reader.NewCSVReader(strings.NewReader(runTable)),
		reader.NewRunMapper(runmapping.Default()),
		false,
	)
	ch, err := rc.Collect(ctx)
	require.NoError(t, err)

	// the stream must close instead of wedging
	for range ch {
	}
}
