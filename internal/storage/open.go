package storage

import (
	"context"
	"fmt"

	"github.com/evetabi/raceledger/internal/config"
)

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage.Open: unknown driver %q", cfg.Driver)
	}
}
