package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/db"
)

// Open builds the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		gormDB, err := db.Init(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewGormStore(gormDB, cfg.KeyPrefix), nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
