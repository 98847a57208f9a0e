package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/natikozel/Mapty/internal/config"
	"github.com/natikozel/Mapty/internal/db"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	connectPostgresFn = db.ConnectPostgres
	connectSQLiteFn   = db.ConnectSQLite
	connectMySQLFn    = db.ConnectMySQL
)

// Open builds the store named by cfg.StoreBackend. The close function
// releases connections opened here; rdb is owned by the caller.
func Open(cfg config.Config, rdb *redis.Client) (Store, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case "memory":
		return NewMemoryStore(), noop, nil

	case "", "file":
		return NewFileStore(cfg.DataDir), noop, nil

	case "redis":
		if rdb == nil {
			return nil, noop, errors.New("redis store requires REDIS_ADDR")
		}
		return NewRedisStore(rdb), noop, nil

	case "postgres":
		pool, err := connectPostgresFn(cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		store := NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("migrate postgres: %w", err)
		}
		return store, pool.Close, nil

	case "sqlite":
		return openGorm(connectSQLiteFn, cfg)

	case "mysql":
		return openGorm(connectMySQLFn, cfg)

	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openGorm(connect func(config.Config) (*gorm.DB, error), cfg config.Config) (Store, func(), error) {
	noop := func() {}

	gdb, err := connect(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("connect %s: %w", cfg.StoreBackend, err)
	}
	store, err := NewGormStore(gdb)
	if err != nil {
		_ = db.CloseGorm(gdb)
		return nil, noop, fmt.Errorf("migrate %s: %w", cfg.StoreBackend, err)
	}
	return store, func() { _ = db.CloseGorm(gdb) }, nil
}
