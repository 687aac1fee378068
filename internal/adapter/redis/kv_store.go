package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"github.com/redis/go-redis/v9"
)

type kvStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKVStore stores each key as a plain redis string. A zero ttl keeps
// values forever.
func NewKVStore(client *redis.Client, ttl time.Duration) repository.KVStore {
	return &kvStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		if errors.Is(err, redis.ErrClosed) {
			return "", repository.ErrStoreClosed
		}
		return "", fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}
	return val, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}
	return nil
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s from redis: %w", key, err)
	}
	return nil
}

func (s *kvStore) Close() error {
	return s.client.Close()
}
