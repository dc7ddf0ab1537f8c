package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/headlines/internal/core/config"
	redisclient "github.com/vietddude/headlines/internal/infra/redis"
	"github.com/vietddude/headlines/internal/infra/storage"
	"github.com/vietddude/headlines/internal/infra/storage/memory"
	"github.com/vietddude/headlines/internal/infra/storage/postgres"
	"github.com/vietddude/headlines/internal/infra/storage/sqlite"
)

// openStore initializes the snapshot store selected by cache.driver. db is
// non-nil only for the postgres driver.
func openStore(ctx context.Context, cfg *config.AppConfig) (storage.KeyValueStore, *postgres.DB, error) {
	switch cfg.Cache.Driver {
	case storage.DriverMemory:
		slog.Info("Using Memory cache storage")
		return memory.NewStore(), nil, nil

	case storage.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init sqlite cache: %w", err)
		}
		slog.Info("Using SQLite cache storage", "path", cfg.Cache.Path)
		return store, nil, nil

	case storage.DriverRedis:
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init redis cache: %w", err)
		}
		slog.Info("Using Redis cache storage")
		return client, nil, nil

	case storage.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		slog.Info("Using PostgreSQL cache storage")
		return postgres.NewKVStore(db), db, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Cache.Driver)
	}
}
