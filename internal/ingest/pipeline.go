package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/ingest/collector"
	"github.com/teftimov/IOHanalyzer/internal/storage"
)

const defaultBatchSize = 500

// Pipeline defines the interface for data ingest pipelines
type Pipeline interface {
	// Run executes the pipeline with the given context
	Run(ctx context.Context) error

	// Stop gracefully stops the pipeline
	Stop()
}

// BulkOptions defines batched archiving configuration
type BulkOptions struct {
	Enabled bool
	Size    int
}

// PipelineConfig defines configuration for pipelines
type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}

// ArchivePipeline drains a dataset collector into a Storer and, when a
// catalog is attached, publishes a searchable summary per archived dataset.
type ArchivePipeline struct {
	collector collector.Collector[*dataset.Dataset]
	storer    storage.Storer
	catalog   storage.Catalog
	suite     string
	config    *PipelineConfig
}

type PipelineOption func(pipeline *ArchivePipeline)

// WithBulk archives datasets in batches of the given size.
func WithBulk(size int) PipelineOption {
	return func(pipeline *ArchivePipeline) {
		if pipeline.config.Bulk == nil {
			pipeline.config.Bulk = &BulkOptions{}
		}
		pipeline.config.Bulk.Enabled = true
		if size > 0 {
			pipeline.config.Bulk.Size = size
		}
	}
}

// WithCatalog publishes a summary for every archived dataset.
func WithCatalog(c storage.Catalog) PipelineOption {
	return func(pipeline *ArchivePipeline) {
		pipeline.catalog = c
	}
}

// WithConfig sets custom pipeline configuration.
func WithConfig(config *PipelineConfig) PipelineOption {
	return func(pipeline *ArchivePipeline) {
		pipeline.config = config
	}
}

func NewPipeline(c collector.Collector[*dataset.Dataset], storer storage.Storer, suite string, opts ...PipelineOption) *ArchivePipeline {
	p := &ArchivePipeline{
		collector: c,
		storer:    storer,
		suite:     suite,
		config: &PipelineConfig{
			Name: "archive-pipeline",
			Bulk: &BulkOptions{
				Enabled: false,
				Size:    defaultBatchSize,
			},
		},
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.config.Bulk == nil {
		p.config.Bulk = &BulkOptions{Enabled: false, Size: defaultBatchSize}
	}

	return p
}

func (p *ArchivePipeline) Run(ctx context.Context) error {
	start := time.Now()
	slog.Info("Starting archive pipeline run",
		"pipeline", p.config.Name,
		"suite", p.suite,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting datasets", "error", err, "pipeline", p.config.Name)
		return err
	}

	var runErr error
	if p.config.Bulk.Enabled {
		runErr = p.importBatch(ctx, results)
	} else {
		runErr = p.importBasic(ctx, results)
	}

	slog.Info("Archive pipeline run completed",
		"pipeline", p.config.Name,
		"duration", time.Since(start),
		"error", runErr,
	)

	return runErr
}

func (p *ArchivePipeline) importBasic(ctx context.Context, results <-chan collector.Result[*dataset.Dataset]) error {
	suiteID, err := p.storer.SaveSuite(ctx, p.suite)
	if err != nil {
		return fmt.Errorf("failed to register suite %q: %w", p.suite, err)
	}

	stored := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"stored", stored,
			)
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				slog.Info("Collection channel closed, stopping collection",
					"pipeline", p.config.Name,
					"stored", stored,
				)
				return nil
			}
			if res.Err != nil {
				return res.Err
			}

			id, err := p.storer.SaveDataset(ctx, suiteID, res.Result)
			if err != nil {
				return fmt.Errorf("failed to archive dataset %q on %s: %w", res.Result.Algorithm, res.Result.Cell().Key(), err)
			}
			slog.Info("Dataset archived",
				"id", id,
				"algorithm", res.Result.Algorithm,
				"cell", res.Result.Cell().Key(),
				"pipeline", p.config.Name,
			)

			if p.catalog != nil {
				if err := p.catalog.Index(ctx, storage.Summarize(p.suite, id, res.Result)); err != nil {
					return fmt.Errorf("failed to index summary for dataset %s: %w", id, err)
				}
			}
			stored++
		}
	}
}

func (p *ArchivePipeline) importBatch(ctx context.Context, results <-chan collector.Result[*dataset.Dataset]) error {
	batch := make(dataset.Collection, 0, p.config.Bulk.Size)
	batchCount := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		ids, err := p.storer.SaveBulk(ctx, p.suite, batch)
		if err != nil {
			return fmt.Errorf("failed to archive batch of %d datasets: %w", len(batch), err)
		}
		if p.catalog != nil {
			summaries := make([]storage.DatasetSummary, len(batch))
			for i, d := range batch {
				summaries[i] = storage.Summarize(p.suite, ids[i], d)
			}
			if err := p.catalog.IndexBulk(ctx, summaries); err != nil {
				return fmt.Errorf("failed to index batch summaries: %w", err)
			}
		}
		batchCount++
		slog.Info("Batch archived",
			"pipeline", p.config.Name,
			"count", len(batch),
			"batch", batchCount,
		)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"pending_batch", len(batch),
			)
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				if err := flush(); err != nil {
					return err
				}
				slog.Info("Collection channel closed, stopping collection",
					"pipeline", p.config.Name,
					"batches", batchCount,
				)
				return nil
			}
			if res.Err != nil {
				return res.Err
			}

			batch = append(batch, res.Result)
			if len(batch) >= p.config.Bulk.Size {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
}

func (p *ArchivePipeline) Stop() {
	slog.Info("Stopping archive pipeline", "pipeline", p.config.Name)
}
