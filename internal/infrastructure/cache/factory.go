package cache

import (
	"context"
	"fmt"

	"github.com/memoriascard/backend/internal/domain/payment"
	"github.com/memoriascard/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LedgerFactory creates the payment return ledger based on configuration
type LedgerFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error)
}

// LedgerFactoryOption is a functional option for configuring the factory
type LedgerFactoryOption func(*LedgerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LedgerFactoryOption {
	return func(f *LedgerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory ledger when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) LedgerFactoryOption {
	return func(f *LedgerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLedgerFactory creates a new factory
func NewLedgerFactory(cfg config.RedisConfig, opts ...LedgerFactoryOption) *LedgerFactory {
	f := &LedgerFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect:               NewRedisClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLedger returns a Redis ledger when Redis is enabled and reachable,
// and an in-memory ledger otherwise (if fallback is allowed)
func (f *LedgerFactory) CreateLedger(ctx context.Context) (payment.ReturnLedger, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory payment return ledger")
		return NewInMemoryReturnLedger(), nil
	}

	client, err := f.connect(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis payment return ledger", zap.String("addr", f.redisConfig.Addr()))
		return NewRedisReturnLedger(client, ""), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for payment return ledger but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory payment return ledger. "+
		"Replayed returns may be verified again on other instances.",
		zap.Error(err),
	)
	return NewInMemoryReturnLedger(), nil
}
