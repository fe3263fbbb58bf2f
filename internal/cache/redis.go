package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis stores entries in a Redis server so several API instances share them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis creates a client for the server in opts. Connections are opened on first use.
func NewRedis(logger *zap.Logger, opts *redis.Options, ttl time.Duration) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the stored value. Server errors are logged and reported as a
// miss so callers fall back to computing the response.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache lookup failed",
				zap.String("op", "cache.Redis.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return "", false
	}
	return val, true
}

// Set stores value under key for the configured TTL.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
