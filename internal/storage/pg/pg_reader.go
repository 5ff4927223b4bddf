package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Reader reconstructs collections from the archive tables.
type Reader struct {
	db *pgxpool.Pool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn}, nil
}

// LoadCollection loads every dataset of the named suite, run trajectories
// ordered by run_index, then narrows by the given filters. Trajectories are
// revalidated on the way out so a corrupted archive surfaces here rather
// than deep inside an analysis.
func (r *Reader) LoadCollection(ctx context.Context, suite string, algorithms, functions []string, dimensions []int) (dataset.Collection, error) {
	var suiteID uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM suites WHERE name = $1`, suite).Scan(&suiteID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("suite %q not found", suite)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up suite %q: %w", suite, err)
	}

	query := `
		SELECT id, algorithm, function, dimension, maximize
		FROM datasets
		WHERE suite_id = $1
		ORDER BY algorithm, function, dimension
	`
	rows, err := r.db.Query(ctx, query, suiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	var out dataset.Collection
	for rows.Next() {
		var id uuid.UUID
		d := &dataset.Dataset{}
		if err := rows.Scan(&id, &d.Algorithm, &d.Function, &d.Dimension, &d.Maximize); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		ids = append(ids, id)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read datasets: %w", err)
	}

	for i, d := range out {
		runs, err := r.loadRuns(ctx, ids[i])
		if err != nil {
			return nil, fmt.Errorf("failed to load runs for dataset %q on %s: %w", d.Algorithm, d.Cell().Key(), err)
		}
		d.Runs = runs
	}

	slog.Debug("collection loaded from pg", "suite", suite, "datasets", len(out))
	return out.Filter(algorithms, functions, dimensions), nil
}

func (r *Reader) loadRuns(ctx context.Context, datasetID uuid.UUID) ([]dataset.Run, error) {
	query := `
		SELECT evals, best_values
		FROM runs
		WHERE dataset_id = $1
		ORDER BY run_index
	`
	rows, err := r.db.Query(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []dataset.Run
	for rows.Next() {
		var evals []int64
		var values []float64
		if err := rows.Scan(&evals, &values); err != nil {
			return nil, err
		}
		run, err := dataset.NewRun(evals, values)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *Reader) ListSuites(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM suites ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suites: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan suite name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
