package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/ingest"
	"github.com/teftimov/IOHanalyzer/internal/ingest/collector"
	"github.com/teftimov/IOHanalyzer/internal/ingest/reader"
	"github.com/teftimov/IOHanalyzer/internal/storage/factory"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
)

func main() {
	flags := parseFlags()

	appSettings := NewAppConfig()

	cfg, err := appSettings.Load(flags)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mapping, err := loadMapping(cfg.MappingPath)
	if err != nil {
		slog.Error("failed to load column mapping", "error", err)
		os.Exit(1)
	}

	dataFile, err := os.Open(cfg.DatasetPath)
	if err != nil {
		slog.Error("failed to open run table", "error", err)
		os.Exit(1)
	}
	defer dataFile.Close()

	runReader := reader.NewCSVReader(dataFile)
	mapper := reader.NewRunMapper(mapping)

	c := collector.NewRunCollector(runReader, mapper, cfg.Maximize)

	pipeline, err := newPipeline(ctx, cfg, c)
	if err != nil {
		slog.Error("failed to create pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Stop()

	if err := pipeline.Run(ctx); err != nil {
		slog.Error("failed to run pipeline", "error", err)
		os.Exit(1)
	}
}

func parseFlags() IngestFlags {
	var flags IngestFlags
	flag.StringVar(&flags.File, "file", "", "path to the long-format run table (csv)")
	flag.StringVar(&flags.Suite, "suite", "", "suite name to archive the runs under")
	flag.StringVar(&flags.Storage, "storage", "", "archive backend, overriding STORAGE_TYPE (pg or in_mem)")
	flag.IntVar(&flags.Bulk, "bulk", 0, "archive datasets in batches of this size (0 saves one by one)")
	flag.StringVar(&flags.Mapping, "mapping", "", "yaml column mapping for tables with non-standard headers")
	flag.BoolVar(&flags.Maximize, "maximize", false, "treat larger function values as better")
	flag.Parse()
	return flags
}

func loadMapping(path string) (*runmapping.RunMapping, error) {
	if path == "" {
		return runmapping.Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	loader := reader.NewYAMLMappingLoader(file)
	return loader.Load(true)
}

func newPipeline(
	ctx context.Context,
	cfg *IngestConfig,
	coll collector.Collector[*dataset.Dataset]) (ingest.Pipeline, error) {
	slog.Info("Creating pipeline", "storageType", cfg.StorageConfig.Type, "suite", cfg.Suite)

	storer, err := factory.NewStorer(ctx, cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create storer", "error", err)
		return nil, err
	}

	opts := make([]ingest.PipelineOption, 0, 2)
	if cfg.BulkSize > 0 {
		opts = append(opts, ingest.WithBulk(cfg.BulkSize))
	}
	if cfg.StorageConfig.Es != nil {
		catalog, err := factory.NewCatalog(ctx, cfg.StorageConfig)
		if err != nil {
			slog.Error("failed to create catalog", "error", err)
			return nil, err
		}
		opts = append(opts, ingest.WithCatalog(catalog))
	}

	return ingest.NewPipeline(coll, storer, cfg.Suite, opts...), nil
}
