// Package main IOHanalyzer API
// @title IOHanalyzer API
// @version 1.0
// @description Statistical analysis of iterative optimization heuristic benchmark data
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/teftimov/IOHanalyzer/internal/router"
	"github.com/teftimov/IOHanalyzer/internal/server"
	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/internal/storage/factory"
	"github.com/teftimov/IOHanalyzer/internal/storage/pg"
	pkgserver "github.com/teftimov/IOHanalyzer/pkg/server"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	// With a pg archive configured the health probe pings it; otherwise the
	// API serves inline analyses only and is healthy whenever it is up.
	var health pkgserver.HealthChecker = pkgserver.NewOkHealthChecker()
	var pool *pg.ConnectionPool
	if cfg.StorageConfig.Type == storage.PG && cfg.StorageConfig.Pg != nil {
		pool, err = pg.NewConnectionPool(context.Background(), *cfg.StorageConfig.Pg)
		if err != nil {
			slog.Error("Failed to connect to the archive database", "error", err)
			os.Exit(1)
			return
		}
		health = pg.NewHealthChecker(pool)
	}

	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "IOHanalyzer API is running")
	})

	catalog, err := factory.NewCatalog(s.Context(), cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create dataset catalog", "error", err)
		os.Exit(1)
		return
	}

	router.NewAnalysisRouter(s.Echo).Bind()
	router.NewDatasetRouter(s.Echo, catalog).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		if pool != nil {
			pool.Close()
		}
	}()

	err = s.Start()
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
