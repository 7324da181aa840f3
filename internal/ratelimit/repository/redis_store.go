package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coldmail-backend/internal/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRedisKey holds the whole counter document.
	DefaultRedisKey = "coldmail:ratelimits"

	// DefaultRedisTTL outlives the longest window so an idle deployment cleans itself up.
	DefaultRedisTTL = 48 * time.Hour
)

type redisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStore creates a Store backed by a Redis string key.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{
		rdb: rdb,
		key: DefaultRedisKey,
		ttl: DefaultRedisTTL,
	}
}

// NewRedisStoreFromURL parses a redis:// URL and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url string) (Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb), nil
}

func (s *redisStore) Load(ctx context.Context) (*domain.Tables, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewTables(), nil
		}
		return nil, fmt.Errorf("redis GET: %w", err)
	}

	var tables domain.Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		return domain.NewTables(), nil
	}
	return tables.Normalize(), nil
}

func (s *redisStore) Save(ctx context.Context, tables *domain.Tables) error {
	data, err := json.Marshal(tables.Normalize())
	if err != nil {
		return fmt.Errorf("encode rate limits: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}
