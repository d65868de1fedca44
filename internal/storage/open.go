package storage

import (
	"fmt"

	"backend-trackaudit/internal/config"
	"backend-trackaudit/internal/objstore"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Open picks the object store named by STORE_BACKEND and narrows it to
// metadata files.
func Open(cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client) (objstore.Store, error) {
	var s objstore.Store
	switch cfg.StoreBackend {
	case "", "fs":
		s = objstore.NewFS(cfg.StoreRoot)
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("store backend redis: REDIS_ADDR not configured")
		}
		s = objstore.NewRedis(rdb, cfg.StorePrefix)
	case "postgres":
		if pg == nil {
			return nil, fmt.Errorf("store backend postgres: no database connection")
		}
		s = NewService(pg, cfg.StorePrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return objstore.FilterSuffix(s, cfg.MetaSuffix), nil
}
