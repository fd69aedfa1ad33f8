package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/redis/go-redis/v9"
)

const defaultLedgerKeyPrefix = "mc:payment:return:"

// ledgerClient is the subset of the redis client the ledger uses
type ledgerClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisReturnLedger implements payment.ReturnLedger using Redis.
// A claimed key holds an empty string until its outcome is stored.
type RedisReturnLedger struct {
	client    ledgerClient
	keyPrefix string
}

// NewRedisReturnLedger creates a ledger with an existing Redis client
func NewRedisReturnLedger(client *redis.Client, keyPrefix string) *RedisReturnLedger {
	return newRedisReturnLedger(client, keyPrefix)
}

func newRedisReturnLedger(client ledgerClient, keyPrefix string) *RedisReturnLedger {
	if keyPrefix == "" {
		keyPrefix = defaultLedgerKeyPrefix
	}
	return &RedisReturnLedger{client: client, keyPrefix: keyPrefix}
}

// Claim uses SETNX so only one caller wins the key
func (l *RedisReturnLedger) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, "", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim payment return: %w", err)
	}
	return ok, nil
}

// Complete stores the outcome
func (l *RedisReturnLedger) Complete(ctx context.Context, key string, outcome []byte, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.keyPrefix+key, string(outcome), ttl).Err(); err != nil {
		return fmt.Errorf("failed to record payment return: %w", err)
	}
	return nil
}

// Outcome reads the stored outcome
func (l *RedisReturnLedger) Outcome(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := l.client.Get(ctx, l.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read payment return: %w", err)
	}
	if v == "" {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Release deletes the key
func (l *RedisReturnLedger) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release payment return: %w", err)
	}
	return nil
}

var _ payment.ReturnLedger = (*RedisReturnLedger)(nil)
