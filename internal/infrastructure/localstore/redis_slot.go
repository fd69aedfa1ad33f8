package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKV is the subset of redis.Cmdable used by RedisSlot
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSlot stores slots as plain redis strings under a key prefix
type RedisSlot struct {
	client    redisKV
	keyPrefix string
	ttl       time.Duration
}

// RedisSlotOption configures a RedisSlot
type RedisSlotOption func(*RedisSlot)

// WithKeyPrefix sets the redis key prefix
func WithKeyPrefix(prefix string) RedisSlotOption {
	return func(s *RedisSlot) {
		s.keyPrefix = prefix
	}
}

// WithTTL expires slots that have not been written for ttl
func WithTTL(ttl time.Duration) RedisSlotOption {
	return func(s *RedisSlot) {
		s.ttl = ttl
	}
}

// NewRedisSlot creates a slot backed by a redis client
func NewRedisSlot(client redis.Cmdable, opts ...RedisSlotOption) *RedisSlot {
	return newRedisSlot(client, opts...)
}

func newRedisSlot(client redisKV, opts ...RedisSlotOption) *RedisSlot {
	s := &RedisSlot{
		client:    client,
		keyPrefix: "localstore:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Slot
func (s *RedisSlot) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("localstore: redis get %q: %w", key, err)
	}
	return v, true, nil
}

// Set implements Slot
func (s *RedisSlot) Set(ctx context.Context, key, value string) error {
	err := s.client.Set(ctx, s.keyPrefix+key, value, s.ttl).Err()
	if err == nil {
		return nil
	}
	// redis answers OOM when maxmemory is reached and no key can be evicted
	if strings.HasPrefix(err.Error(), "OOM") {
		return ErrQuotaExceeded
	}
	return fmt.Errorf("localstore: redis set %q: %w", key, err)
}

// Remove implements Slot
func (s *RedisSlot) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("localstore: redis del %q: %w", key, err)
	}
	return nil
}
