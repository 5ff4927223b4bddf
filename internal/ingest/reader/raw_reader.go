package reader

import "context"

// ParallelReaderResult is one streamed row or the error it produced.
type ParallelReaderResult struct {
	Record map[string]string
	Err    error
}

// RawParallelReader streams rows without holding the table in memory.
type RawParallelReader interface {
	ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error)
}
