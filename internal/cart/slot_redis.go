package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pasarseni/pasarseni-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisSlot stores cart snapshots in Redis under the versioned cart key.
type RedisSlot struct {
	store kvStore
	ttl   time.Duration
}

// NewRedisSlot builds the Redis-backed durable slot. A zero TTL keeps
// snapshots until explicitly cleared.
func NewRedisSlot(store kvStore, ttl time.Duration) (*RedisSlot, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &RedisSlot{store: store, ttl: ttl}, nil
}

func (s *RedisSlot) Load(ctx context.Context, owner string) ([]byte, error) {
	val, err := s.store.Get(ctx, redis.CartKey(SlotVersion, owner))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart slot: %w", err)
	}
	return []byte(val), nil
}

func (s *RedisSlot) Save(ctx context.Context, owner string, payload []byte) error {
	if err := s.store.Set(ctx, redis.CartKey(SlotVersion, owner), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart slot: %w", err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context, owner string) error {
	if err := s.store.Del(ctx, redis.CartKey(SlotVersion, owner)); err != nil {
		return fmt.Errorf("clear cart slot: %w", err)
	}
	return nil
}
