package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/NextStepSol/workshop-app/internal/config"
	"github.com/NextStepSol/workshop-app/internal/store"
)

// OpenStore returns the key-value backend selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Printf("store: using in-memory backend (data is lost on exit)")
		return store.NewMemory(), nil
	case config.DriverSQLite:
		s, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("store: sqlite at %s", s.Path())
		return s, nil
	case config.DriverMySQL:
		db, err := OpenMySQL(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		s, err := store.NewMySQL(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Printf("store: mysql %s:%s/%s", cfg.Store.DBHost, cfg.Store.DBPort, cfg.Store.DBName)
		return s, nil
	case config.DriverRedis:
		rdb := config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			return nil, errors.New("redis store: server unreachable at " + cfg.Redis.Addr)
		}
		log.Printf("store: redis %s prefix=%q", cfg.Redis.Addr, cfg.Store.Prefix)
		return store.NewRedis(rdb, cfg.Store.Prefix), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
