package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store over a Redis client, for server-side hosts that keep the
// enabled flag in shared infrastructure.
type Redis struct {
	client redis.UniversalClient
	prefix string
	closed atomic.Bool
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithKeyPrefix namespaces every key, e.g. per tenant or per environment.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// NewRedis wraps an already-connected Redis client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) GetBool(ctx context.Context, key string) (bool, bool, error) {
	if r.closed.Load() {
		return false, false, ErrClosed
	}
	raw, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return raw == "1", true, nil
}

func (r *Redis) SetBool(ctx context.Context, key string, value bool) error {
	if r.closed.Load() {
		return ErrClosed
	}
	raw := "0"
	if value {
		raw = "1"
	}
	if err := r.client.Set(ctx, r.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
