package cache

import (
	"context"
	"fmt"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LedgerFactory builds the processed webhook event ledger selected by
// webhook.ledger
type LedgerFactory struct {
	webhook               config.WebhookConfig
	redis                 config.RedisConfig
	database              shared.IdempotencyStore
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LedgerFactoryOption configures a LedgerFactory
type LedgerFactoryOption func(*LedgerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LedgerFactoryOption {
	return func(f *LedgerFactory) {
		f.logger = logger
	}
}

// WithDatabaseLedger supplies the table-backed ledger used by the database backend
func WithDatabaseLedger(store shared.IdempotencyStore) LedgerFactoryOption {
	return func(f *LedgerFactory) {
		f.database = store
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory ledger. Default is true.
func WithInMemoryFallback(allow bool) LedgerFactoryOption {
	return func(f *LedgerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLedgerFactory creates a new LedgerFactory
func NewLedgerFactory(webhook config.WebhookConfig, redis config.RedisConfig, opts ...LedgerFactoryOption) *LedgerFactory {
	f := &LedgerFactory{
		webhook:               webhook,
		redis:                 redis,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the configured ledger
func (f *LedgerFactory) Create(ctx context.Context) (shared.IdempotencyStore, error) {
	switch f.webhook.Ledger {
	case config.LedgerDatabase, "":
		if f.database == nil {
			return nil, fmt.Errorf("database ledger selected but none was supplied")
		}
		f.logger.Info("Using database webhook ledger")
		return f.database, nil

	case config.LedgerRedis:
		store, err := NewRedisLedger(ctx, RedisOptions{
			Addr:     f.redis.Addr(),
			Password: f.redis.Password,
			DB:       f.redis.DB,
		})
		if err == nil {
			f.logger.Info("Using Redis webhook ledger", zap.String("addr", f.redis.Addr()))
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis webhook ledger unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory webhook ledger. "+
			"Replicas will not share processed event IDs.",
			zap.Error(err))
		return NewMemoryLedger(0), nil

	case config.LedgerMemory:
		f.logger.Info("Using in-memory webhook ledger")
		return NewMemoryLedger(0), nil
	}
	return nil, fmt.Errorf("unknown webhook ledger %q", f.webhook.Ledger)
}
