package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/teftimov/IOHanalyzer/internal/storage/factory"
	"github.com/teftimov/IOHanalyzer/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

// IngestFlags carries the parsed command line.
type IngestFlags struct {
	File     string
	Mapping  string
	Suite    string
	Storage  string
	Bulk     int
	Maximize bool
}

type IngestConfig struct {
	DatasetPath   string
	MappingPath   string
	Suite         string
	Maximize      bool
	BulkSize      int
	StorageConfig *factory.StorageConfig
}

// Load merges the command line with the environment. Connection details
// always come from the environment; -storage overrides STORAGE_TYPE.
func (as *AppConfig) Load(flags IngestFlags) (*IngestConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/ioh_ingest/.env"); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	if flags.File == "" {
		return nil, fmt.Errorf("-file is required: path to the run table csv")
	}
	if flags.Suite == "" {
		return nil, fmt.Errorf("-suite is required: name to archive the runs under")
	}
	if flags.Bulk < 0 {
		return nil, fmt.Errorf("-bulk must be zero or a batch size, got %d", flags.Bulk)
	}

	if flags.Storage != "" {
		if err := os.Setenv("STORAGE_TYPE", flags.Storage); err != nil {
			return nil, err
		}
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &IngestConfig{
		DatasetPath:   flags.File,
		MappingPath:   flags.Mapping,
		Suite:         flags.Suite,
		Maximize:      flags.Maximize,
		BulkSize:      flags.Bulk,
		StorageConfig: storageCfg,
	}, nil
}
