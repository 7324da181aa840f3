package repository

import (
	"context"
	"fmt"

	"coldmail-backend/pkg/config"
)

// NewStore builds the store selected by RATE_LIMIT_STORE.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.RateLimitStore {
	case config.StoreFile, "":
		return NewFileStore(cfg.RateLimitFile), nil
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreRedis:
		return NewRedisStoreFromURL(ctx, cfg.RedisURL)
	case config.StorePostgres:
		return NewPostgresStore(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.RateLimitStore)
	}
}
