package main

import (
	"log/slog"
	"os"

	"github.com/teftimov/IOHanalyzer/internal/storage/factory"
	"github.com/teftimov/IOHanalyzer/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ApiConfig struct {
	StorageConfig *factory.StorageConfig
}

func (ac *AppConfig) Load() (*ApiConfig, error) {
	err := env.LoadDotEnv(ac.ENV, "cmd/ioh_api/.env")
	if err != nil {
		slog.Info("Failed to load .env file, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	return &ApiConfig{
		StorageConfig: storageCfg,
	}, nil
}
