package storage

import (
	"context"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Reader reconstructs collections from the archive.
type Reader interface {
	// LoadCollection loads the named suite's datasets and filters them by
	// algorithm, function and dimension; nil or empty filters act as
	// wildcards. An unknown suite is an error.
	LoadCollection(ctx context.Context, suite string, algorithms, functions []string, dimensions []int) (dataset.Collection, error)
	// ListSuites returns the archived suite names in sorted order.
	ListSuites(ctx context.Context) ([]string, error)
}
