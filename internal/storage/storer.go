package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Storer archives benchmark data. Implementations must be safe for
// concurrent use.
type Storer interface {
	// SaveSuite registers a suite by name and returns its id. Saving an
	// existing name returns the id already assigned to it.
	SaveSuite(ctx context.Context, name string) (uuid.UUID, error)
	// SaveDataset stores one dataset under a suite, replacing any previous
	// data for the same (algorithm, function, dimension).
	SaveDataset(ctx context.Context, suiteID uuid.UUID, d *dataset.Dataset) (uuid.UUID, error)
	// SaveBulk stores a whole collection under the named suite and returns
	// the dataset ids in collection order.
	SaveBulk(ctx context.Context, suite string, c dataset.Collection) ([]uuid.UUID, error)
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
