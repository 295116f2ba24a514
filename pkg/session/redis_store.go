package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakeshop-mx/storefront-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "bakeshop:session"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore persists the session in Redis so several terminals on the same
// host share one login.
type RedisStore struct {
	store cmdable
	ttl   time.Duration
}

// NewRedisStore bootstraps a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg config.SessionConfig) (*RedisStore, error) {
	if cfg.RedisURL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	opts.DialTimeout = cfg.RedisDialTimeout
	opts.ReadTimeout = cfg.RedisReadTimeout
	opts.WriteTimeout = cfg.RedisWriteTimeout

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, ttl: cfg.TTL}, nil
}

// Get returns the stored value for key or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, s.sessionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value for key with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.sessionKey(key), value, s.ttl).Err()
}

// Del removes the provided keys.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.sessionKey(key))
	}
	return s.store.Del(ctx, namespaced...).Err()
}

func (s *RedisStore) sessionKey(key string) string {
	return fmt.Sprintf("%s:%s", keyNamespace, key)
}
