package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps every collection under its own key.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are prefix+collection.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Load(ctx context.Context, collection string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+collection).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %q: %w", collection, err)
	}
	return data, nil
}

// Save writes all keys in one MULTI/EXEC block.
func (s *redisStore) Save(ctx context.Context, records map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, data := range records {
			pipe.Set(ctx, s.prefix+name, data, 0)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to save collections: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
