package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/pkg/jsonx"
	"github.com/teftimov/IOHanalyzer/pkg/pagination"
)

// DatasetSummary is the searchable card of one archived dataset.
type DatasetSummary struct {
	ID        string      `json:"id"`
	Suite     string      `json:"suite"`
	Algorithm string      `json:"algorithm"`
	Function  string      `json:"function"`
	Dimension int         `json:"dimension"`
	Maximize  bool        `json:"maximize"`
	Runs      int         `json:"runs"`
	MaxBudget float64     `json:"max_budget"`
	BestValue jsonx.Float `json:"best_value"`
	IndexedAt time.Time   `json:"indexed_at"`
}

// Catalog is the discovery surface over archived datasets.
type Catalog interface {
	// Index publishes one summary, overwriting any document with the same id.
	Index(ctx context.Context, s DatasetSummary) error
	// IndexBulk publishes many summaries in one shot.
	IndexBulk(ctx context.Context, summaries []DatasetSummary) error
	// Search matches query text against algorithm, function and suite names.
	// A positive dimension restricts results to that dimension; an empty
	// query matches everything. Results are paged by the offset request.
	Search(ctx context.Context, query string, dimension int, page pagination.OffsetRequest) ([]DatasetSummary, error)
}

// Summarize builds the catalog card of a stored dataset.
func Summarize(suite string, id uuid.UUID, d *dataset.Dataset) DatasetSummary {
	s := DatasetSummary{
		ID:        id.String(),
		Suite:     suite,
		Algorithm: d.Algorithm,
		Function:  d.Function,
		Dimension: d.Dimension,
		Maximize:  d.Maximize,
		Runs:      len(d.Runs),
		IndexedAt: time.Now(),
	}
	if len(d.Runs) > 0 {
		s.MaxBudget = d.MaxBudget()
		s.BestValue = jsonx.Float(d.BestValue())
	}
	return s
}
