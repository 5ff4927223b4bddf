package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/internal/storage/es"
	"github.com/teftimov/IOHanalyzer/internal/storage/pg"
)

const defaultIndexName = "ioh-datasets"

// StorageConfig selects the archive backend and, independently, the
// optional Elasticsearch catalog. Raw run data lives in pg or in memory;
// es only ever holds dataset summaries.
type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

// LoadEnv assembles the storage configuration from the environment.
// STORAGE_TYPE picks the archive (pg or in_mem, defaulting to in_mem);
// setting ES_ADDRESSES enables the catalog regardless of archive choice.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Info("STORAGE_TYPE not set, defaulting to in-memory storage")
		storageType = storage.InMem
	}

	switch storageType {
	case storage.PG, storage.InMem:
	case storage.ES:
		return nil, fmt.Errorf("STORAGE_TYPE=es is reserved for the catalog; set ES_ADDRESSES alongside pg or in_mem instead")
	default:
		slog.Error("invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.PG, storage.InMem})
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	var esCfg *es.ClientConfig
	if addrs := os.Getenv("ES_ADDRESSES"); addrs != "" {
		esCfg = &es.ClientConfig{
			Addresses: strings.Split(addrs, ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if esCfg.IndexName == "" {
			esCfg.IndexName = defaultIndexName
		}
	}

	return &StorageConfig{
		Type: storageType,
		Pg:   pgCfg,
		Es:   esCfg,
	}, nil
}
