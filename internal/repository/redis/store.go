package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
)

// StateStore implements repository.StateStore using Redis.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a Redis-backed state store. A zero ttl stores keys
// without expiry.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the raw value stored under key.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("state", key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key with the configured TTL.
func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from Redis.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable. Used by the readiness probe.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
