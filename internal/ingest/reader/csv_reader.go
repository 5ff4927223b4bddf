package reader

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"sync"
)

// CSVReader streams a long-format run table whose first row is the header.
// Run tables grow with every evaluation logged, so rows are keyed and
// handed off as they are read instead of accumulating in memory.
type CSVReader struct {
	reader io.Reader
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// ReadParallel streams rows through a pool of workers that key each row by
// header. Row order is not preserved. Malformed rows come out as results
// carrying the csv error; the read goes on, so the receiver decides whether
// one bad row sinks the whole table.
func (cr *CSVReader) ReadParallel(ctx context.Context, workerCount int) (<-chan ParallelReaderResult, error) {
	out := make(chan ParallelReaderResult)
	csvReader := csv.NewReader(cr.reader)

	headers, err := csvReader.Read()
	if err != nil {
		return nil, err
	}

	// Buffered job channel to decouple reading from keying
	jobs := make(chan []string, workerCount*2)
	var wg sync.WaitGroup

	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case row, ok := <-jobs:
					if !ok {
						return
					}
					record := make(map[string]string, len(headers))
					for i, h := range headers {
						record[h] = row[i]
					}
					select {
					case out <- ParallelReaderResult{Record: record}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)

		for {
			row, err := csvReader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case out <- ParallelReaderResult{Err: err}:
				case <-ctx.Done():
					slog.Info("Context cancelled, stopping run table read")
					return
				}
				continue
			}
			select {
			case jobs <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}
