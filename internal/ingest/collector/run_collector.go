package collector

import (
	"context"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/ingest/reader"
)

const readWorkers = 10

// RunCollector streams a raw run table and regroups it into datasets. Rows
// may arrive in any order, so datasets can only be emitted once the whole
// table has been read. A row that fails to parse aborts the collection with
// a single error result and nothing downstream ever sees a partial table.
type RunCollector struct {
	Reader   reader.RawParallelReader
	Mapper   reader.Mapper
	Maximize bool
}

func NewRunCollector(r reader.RawParallelReader, mapper reader.Mapper, maximize bool) *RunCollector {
	return &RunCollector{
		Reader:   r,
		Mapper:   mapper,
		Maximize: maximize,
	}
}

func (rc *RunCollector) Collect(ctx context.Context) (<-chan Result[*dataset.Dataset], error) {
	// The reader gets its own cancellation so an abort here unblocks its
	// workers even while the caller's context stays live.
	rctx, cancel := context.WithCancel(ctx)

	rows, err := rc.Reader.ReadParallel(rctx, readWorkers)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan Result[*dataset.Dataset])
	go func() {
		defer close(out)
		defer cancel()

		var recs []dataset.RunRecord
		for {
			select {
			case <-ctx.Done():
				return
			case row, ok := <-rows:
				if !ok {
					rc.emit(ctx, out, recs)
					return
				}
				if row.Err != nil {
					send(ctx, out, Result[*dataset.Dataset]{Err: apperr.NewValidationWrap("malformed run table", row.Err)})
					return
				}
				rec, err := rc.Mapper.Map(row.Record)
				if err != nil {
					send(ctx, out, Result[*dataset.Dataset]{Err: err})
					return
				}
				recs = append(recs, rec)
			}
		}
	}()

	return out, nil
}

// emit regroups the collected rows and streams the resulting datasets.
func (rc *RunCollector) emit(ctx context.Context, out chan<- Result[*dataset.Dataset], recs []dataset.RunRecord) {
	c, err := dataset.FromRecords(recs, rc.Maximize)
	if err != nil {
		send(ctx, out, Result[*dataset.Dataset]{Err: err})
		return
	}
	for _, d := range c {
		if !send(ctx, out, Result[*dataset.Dataset]{Result: d}) {
			return
		}
	}
}

func send[T any](ctx context.Context, out chan<- Result[T], res Result[T]) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
