package in_mem

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/pkg/pagination"
)

type datasetKey struct {
	algorithm string
	function  string
	dimension int
}

type suiteData struct {
	name     string
	datasets map[datasetKey]*dataset.Dataset
	ids      map[datasetKey]uuid.UUID
}

// Store keeps suites and catalog summaries in process memory. It backs tests
// and the API's default configuration, and implements Storer, Reader and
// Catalog at once.
type Store struct {
	storageLock sync.RWMutex
	names       map[string]uuid.UUID
	suites      map[uuid.UUID]*suiteData
	summaries   map[string]storage.DatasetSummary
}

func NewStore() *Store {
	return &Store{
		names:     make(map[string]uuid.UUID),
		suites:    make(map[uuid.UUID]*suiteData),
		summaries: make(map[string]storage.DatasetSummary),
	}
}

func (s *Store) SaveSuite(ctx context.Context, name string) (uuid.UUID, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if id, ok := s.names[name]; ok {
		return id, nil
	}

	id := uuid.New()
	s.names[name] = id
	s.suites[id] = &suiteData{
		name:     name,
		datasets: make(map[datasetKey]*dataset.Dataset),
		ids:      make(map[datasetKey]uuid.UUID),
	}
	return id, nil
}

func (s *Store) SaveDataset(ctx context.Context, suiteID uuid.UUID, d *dataset.Dataset) (uuid.UUID, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	suite, ok := s.suites[suiteID]
	if !ok {
		return uuid.Nil, fmt.Errorf("suite %s not found", suiteID)
	}

	key := datasetKey{algorithm: d.Algorithm, function: d.Function, dimension: d.Dimension}
	suite.datasets[key] = d
	// Replacing a triple keeps its id, the way the pg upsert does.
	id, ok := suite.ids[key]
	if !ok {
		id = uuid.New()
		suite.ids[key] = id
	}
	slog.Debug("dataset stored in memory", "suite", suite.name, "algorithm", d.Algorithm, "cell", d.Cell().Key())
	return id, nil
}

func (s *Store) SaveBulk(ctx context.Context, suite string, c dataset.Collection) ([]uuid.UUID, error) {
	id, err := s.SaveSuite(ctx, suite)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(c))
	for _, d := range c {
		dsID, err := s.SaveDataset(ctx, id, d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, dsID)
	}
	return ids, nil
}

func (s *Store) LoadCollection(ctx context.Context, suite string, algorithms, functions []string, dimensions []int) (dataset.Collection, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	id, ok := s.names[suite]
	if !ok {
		return nil, fmt.Errorf("suite %q not found", suite)
	}

	out := make(dataset.Collection, 0, len(s.suites[id].datasets))
	for _, d := range s.suites[id].datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Algorithm != out[j].Algorithm {
			return out[i].Algorithm < out[j].Algorithm
		}
		if out[i].Function != out[j].Function {
			return out[i].Function < out[j].Function
		}
		return out[i].Dimension < out[j].Dimension
	})
	return out.Filter(algorithms, functions, dimensions), nil
}

func (s *Store) ListSuites(ctx context.Context) ([]string, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Index(ctx context.Context, summary storage.DatasetSummary) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	s.summaries[summary.ID] = summary
	return nil
}

func (s *Store) IndexBulk(ctx context.Context, summaries []storage.DatasetSummary) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, summary := range summaries {
		s.summaries[summary.ID] = summary
	}
	return nil
}

// Search scans the indexed summaries with case-insensitive substring
// matching. Results come back sorted by suite, algorithm, function and
// dimension so paging stays stable.
func (s *Store) Search(ctx context.Context, query string, dimension int, page pagination.OffsetRequest) ([]storage.DatasetSummary, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	q := strings.ToLower(query)
	var out []storage.DatasetSummary
	for _, summary := range s.summaries {
		if dimension > 0 && summary.Dimension != dimension {
			continue
		}
		if q != "" && !matches(summary, q) {
			continue
		}
		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Suite != b.Suite {
			return a.Suite < b.Suite
		}
		if a.Algorithm != b.Algorithm {
			return a.Algorithm < b.Algorithm
		}
		if a.Function != b.Function {
			return a.Function < b.Function
		}
		return a.Dimension < b.Dimension
	})

	from := (page.Page - 1) * page.Size
	if from >= len(out) {
		return nil, nil
	}
	out = out[from:]
	if len(out) > page.Size {
		out = out[:page.Size]
	}
	return out, nil
}

func matches(s storage.DatasetSummary, q string) bool {
	return strings.Contains(strings.ToLower(s.Algorithm), q) ||
		strings.Contains(strings.ToLower(s.Function), q) ||
		strings.Contains(strings.ToLower(s.Suite), q)
}
