package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
)

// Storer archives suites, datasets and run trajectories in PostgreSQL.
type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn}, nil
}

func (s *Storer) SaveSuite(ctx context.Context, name string) (uuid.UUID, error) {
	cmd := `
        INSERT INTO suites (id, name, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id;
    `
	var id uuid.UUID
	if err := s.db.QueryRow(ctx, cmd, uuid.New(), name, time.Now()).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert suite %q: %w", name, err)
	}
	return id, nil
}

// SaveDataset upserts the dataset row and replaces its runs wholesale, so
// re-ingesting the same source cannot pile up duplicate trajectories.
func (s *Storer) SaveDataset(ctx context.Context, suiteID uuid.UUID, d *dataset.Dataset) (uuid.UUID, error) {
	cmd := `
        INSERT INTO datasets (id, suite_id, algorithm, function, dimension, maximize, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (suite_id, algorithm, function, dimension)
        DO UPDATE SET maximize = EXCLUDED.maximize
        RETURNING id;
    `
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		uuid.New(),
		suiteID,
		d.Algorithm,
		d.Function,
		d.Dimension,
		d.Maximize,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert dataset %q on %s: %w", d.Algorithm, d.Cell().Key(), err)
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM runs WHERE dataset_id = $1`, id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear runs for dataset %s: %w", id, err)
	}

	rows := make([][]interface{}, len(d.Runs))
	for i, r := range d.Runs {
		rows[i] = []interface{}{id, i, r.Evals, r.Values}
	}

	_, err = s.db.CopyFrom(
		ctx,
		pgx.Identifier{"runs"},
		[]string{"dataset_id", "run_index", "evals", "best_values"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to bulk insert runs: %w", err)
	}

	return id, nil
}

func (s *Storer) SaveBulk(ctx context.Context, suite string, c dataset.Collection) ([]uuid.UUID, error) {
	suiteID, err := s.SaveSuite(ctx, suite)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(c))
	for _, d := range c {
		id, err := s.SaveDataset(ctx, suiteID, d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
