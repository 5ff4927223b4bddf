package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/internal/storage/es"
	"github.com/teftimov/IOHanalyzer/internal/storage/in_mem"
	"github.com/teftimov/IOHanalyzer/internal/storage/pg"
)

// The in-memory store is shared process-wide so a Storer, Reader and
// Catalog built from the same configuration observe the same data.
var inMemStore = sync.OnceValue(in_mem.NewStore)

// NewStorer creates a storage.Storer for the configured archive backend.
func NewStorer(ctx context.Context, cfg *StorageConfig) (storage.Storer, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("postgres storage requires a pool configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStorer(pool)

	case storage.InMem:
		return inMemStore(), nil

	case storage.ES:
		return nil, fmt.Errorf("elasticsearch holds dataset summaries, not raw runs; archive with pg or in_mem")

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewReader creates a storage.Reader for the configured archive backend.
func NewReader(ctx context.Context, cfg *StorageConfig) (storage.Reader, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("postgres storage requires a pool configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewReader(pool)

	case storage.InMem:
		return inMemStore(), nil

	case storage.ES:
		return nil, fmt.Errorf("elasticsearch holds dataset summaries, not raw runs; archive with pg or in_mem")

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewCatalog creates the discovery catalog: Elasticsearch when configured,
// otherwise the in-memory store's scan-based fallback.
func NewCatalog(ctx context.Context, cfg *StorageConfig) (storage.Catalog, error) {
	if cfg.Es != nil {
		return es.NewCatalog(ctx, *cfg.Es)
	}
	return inMemStore(), nil
}
