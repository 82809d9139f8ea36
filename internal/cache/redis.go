// Package cache provides an optional Redis-backed JSON cache.
// When Redis cannot be reached every operation becomes a no-op miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonathan/shortlister/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL applies when SetJSON is called without a positive TTL
const DefaultTTL = 24 * time.Hour

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the startup connectivity check
	PingTimeout time.Duration
}

// Redis is a JSON cache on top of go-redis
type Redis struct {
	client *redis.Client
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis connects to Redis. An empty address or a failed ping returns a cache
// that bypasses every call instead of an error.
func NewRedis(ctx context.Context, opts Options, log *zap.Logger) *Redis {
	log = logger.OrNop(log)
	if opts.Addr == "" {
		return &Redis{logger: log}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", zap.String("addr", opts.Addr), zap.Error(err))
		_ = client.Close()
		return &Redis{logger: log}
	}

	return &Redis{client: client, logger: log}
}

// NewWithClient wraps an existing client, mainly for tests
func NewWithClient(client *redis.Client, log *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger.OrNop(log)}
}

// Available reports whether calls reach Redis
func (r *Redis) Available() bool {
	return !r.isUnavailable()
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis call failed, bypassing cache", zap.Error(err))
	}
}

// Ping checks connectivity
func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

// GetJSON decodes the value stored at key into out.
// The boolean is false on a miss or when the cache is bypassed.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.isUnavailable() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key as JSON
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.isUnavailable() {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close releases the connection pool
func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}
