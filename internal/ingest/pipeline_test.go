package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/ingest/collector"
	"github.com/teftimov/IOHanalyzer/internal/ingest/reader"
	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/internal/storage/in_mem"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
	"github.com/teftimov/IOHanalyzer/pkg/pagination"
)

type stubCollector struct {
	results []collector.Result[*dataset.Dataset]
	open    bool
}

func (s *stubCollector) Collect(ctx context.Context) (<-chan collector.Result[*dataset.Dataset], error) {
	ch := make(chan collector.Result[*dataset.Dataset], len(s.results))
	for _, r := range s.results {
		ch <- r
	}
	if !s.open {
		close(ch)
	}
	return ch, nil
}

type recordingStorer struct {
	saved     []string
	bulkSizes []int
	failSave  bool
}

func (r *recordingStorer) SaveSuite(ctx context.Context, name string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (r *recordingStorer) SaveDataset(ctx context.Context, suiteID uuid.UUID, d *dataset.Dataset) (uuid.UUID, error) {
	if r.failSave {
		return uuid.Nil, errors.New("disk full")
	}
	r.saved = append(r.saved, d.Algorithm)
	return uuid.New(), nil
}

func (r *recordingStorer) SaveBulk(ctx context.Context, suite string, c dataset.Collection) ([]uuid.UUID, error) {
	if r.failSave {
		return nil, errors.New("disk full")
	}
	r.bulkSizes = append(r.bulkSizes, len(c))
	ids := make([]uuid.UUID, len(c))
	for i, d := range c {
		ids[i] = uuid.New()
		r.saved = append(r.saved, d.Algorithm)
	}
	return ids, nil
}

type recordingCatalog struct {
	indexed []storage.DatasetSummary
	bulks   int
}

func (r *recordingCatalog) Index(ctx context.Context, s storage.DatasetSummary) error {
	r.indexed = append(r.indexed, s)
	return nil
}

func (r *recordingCatalog) IndexBulk(ctx context.Context, summaries []storage.DatasetSummary) error {
	r.bulks++
	r.indexed = append(r.indexed, summaries...)
	return nil
}

func (r *recordingCatalog) Search(ctx context.Context, query string, dimension int, page pagination.OffsetRequest) ([]storage.DatasetSummary, error) {
	return nil, nil
}

func ds(t *testing.T, alg, fn string, dim int) *dataset.Dataset {
	t.Helper()
	r, err := dataset.NewRun([]int64{1, 10}, []float64{50, 2})
	require.NoError(t, err)
	return &dataset.Dataset{Algorithm: alg, Function: fn, Dimension: dim, Runs: []dataset.Run{r}}
}

func results(datasets ...*dataset.Dataset) []collector.Result[*dataset.Dataset] {
	out := make([]collector.Result[*dataset.Dataset], len(datasets))
	for i, d := range datasets {
		out[i] = collector.Result[*dataset.Dataset]{Result: d}
	}
	return out
}

func TestArchivePipeline_RunBasic(t *testing.T) {
	store := in_mem.NewStore()
	coll := &stubCollector{results: results(ds(t, "cma-es", "f1", 5), ds(t, "ga", "f1", 5))}

	p := NewPipeline(coll, store, "bbob", WithCatalog(store))
	require.NoError(t, p.Run(t.Context()))

	got, err := store.LoadCollection(t.Context(), "bbob", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	summaries, err := store.Search(t.Context(), "", 0, pagination.OffsetRequest{})
	require.NoError(t, err)
	require.Len(t, summaries, 2, "every archived dataset gets a catalog card")
	assert.Equal(t, "cma-es", summaries[0].Algorithm)
	assert.Equal(t, "bbob", summaries[0].Suite)
	assert.Equal(t, 1, summaries[0].Runs)
}

func TestArchivePipeline_RunBulkFlushes(t *testing.T) {
	storer := &recordingStorer{}
	catalog := &recordingCatalog{}
	coll := &stubCollector{results: results(
		ds(t, "a1", "f1", 5),
		ds(t, "a2", "f1", 5),
		ds(t, "a3", "f1", 5),
	)}

	p := NewPipeline(coll, storer, "bbob", WithBulk(2), WithCatalog(catalog))
	require.NoError(t, p.Run(t.Context()))

	assert.Equal(t, []int{2, 1}, storer.bulkSizes, "one full batch plus the final partial flush")
	assert.Equal(t, 2, catalog.bulks)
	assert.Len(t, catalog.indexed, 3)
}

func TestArchivePipeline_RunAbortsOnCollectError(t *testing.T) {
	storer := &recordingStorer{}
	coll := &stubCollector{results: []collector.Result[*dataset.Dataset]{
		{Err: apperr.NewValidation("malformed run table")},
	}}

	p := NewPipeline(coll, storer, "bbob")
	err := p.Run(t.Context())

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, storer.saved, "nothing is archived from a table that failed to parse")
}

func TestArchivePipeline_RunStorageFailure(t *testing.T) {
	coll := &stubCollector{results: results(ds(t, "a1", "f1", 5))}

	p := NewPipeline(coll, &recordingStorer{failSave: true}, "bbob")
	err := p.Run(t.Context())
	require.ErrorContains(t, err, "failed to archive dataset")

	pb := NewPipeline(&stubCollector{results: results(ds(t, "a1", "f1", 5))}, &recordingStorer{failSave: true}, "bbob", WithBulk(10))
	err = pb.Run(t.Context())
	require.ErrorContains(t, err, "failed to archive batch")
}

func TestArchivePipeline_RunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	coll := &stubCollector{open: true}
	p := NewPipeline(coll, &recordingStorer{}, "bbob")

	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
}

func TestArchivePipeline_EndToEnd(t *testing.T) {
	table := `algorithm,function,dimension,run,eval,value
cma-es,f1,5,1,1,80
cma-es,f1,5,1,100,0.5
cma-es,f1,5,2,1,90
cma-es,f1,5,2,80,1.5
ga,f1,5,1,1,75
ga,f1,5,1,200,12
`
	coll := collector.NewRunCollector(
		reader.NewCSVReader(strings.NewReader(table)),
		reader.NewRunMapper(runmapping.Default()),
		false,
	)
	store := in_mem.NewStore()

	p := NewPipeline(coll, store, "bbob", WithBulk(2), WithCatalog(store))
	require.NoError(t, p.Run(t.Context()))

	got, err := store.LoadCollection(t.Context(), "bbob", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cma-es", got[0].Algorithm)
	assert.Len(t, got[0].Runs, 2)
	assert.Equal(t, 0.5, got[0].BestValue())

	summaries, err := store.Search(t.Context(), "cma", 5, pagination.OffsetRequest{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, float64(100), summaries[0].MaxBudget)
}
