package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// DefaultLedgerKeyPrefix namespaces processed webhook event keys
const DefaultLedgerKeyPrefix = "storeadmin:webhook:processed:"

// RedisLedger keeps processed webhook event IDs in Redis so every replica
// sees the same set. Expiry is left to Redis key TTLs.
type RedisLedger struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisOptions holds Redis connection settings for the ledger
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisLedger connects to Redis and verifies the connection with PING
func NewRedisLedger(ctx context.Context, opts RedisOptions) (*RedisLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return NewRedisLedgerWithClient(client, ""), nil
}

// NewRedisLedgerWithClient wraps an existing client. An empty prefix uses DefaultLedgerKeyPrefix.
func NewRedisLedgerWithClient(client redis.UniversalClient, keyPrefix string) *RedisLedger {
	if keyPrefix == "" {
		keyPrefix = DefaultLedgerKeyPrefix
	}
	return &RedisLedger{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed sets the event key with SET NX and the given TTL.
// It returns false when the key already exists.
func (l *RedisLedger) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(eventID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark webhook event %s: %w", eventID, err)
	}
	return ok, nil
}

// IsProcessed reports whether the event key exists
func (l *RedisLedger) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up webhook event %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection
func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (l *RedisLedger) Close() error {
	return l.client.Close()
}

func (l *RedisLedger) key(eventID string) string {
	return l.keyPrefix + eventID
}

var _ shared.IdempotencyStore = (*RedisLedger)(nil)
