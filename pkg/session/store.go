package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/bakeshop-mx/storefront-client/pkg/config"
)

// The two durable session keys. They are written together on login and
// cleared together on logout; a token without a cached user is a valid state.
const (
	KeyToken = "access_token"
	KeyUser  = "user"
)

// ErrNotFound is returned when a session key has no stored value.
var ErrNotFound = errors.New("session key not found")

// Store persists the session token and the serialized current user.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}

// NewFromConfig builds the session store selected by configuration.
func NewFromConfig(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendFile:
		path := cfg.FilePath
		if path == "" {
			resolved, err := DefaultFilePath()
			if err != nil {
				return nil, err
			}
			path = resolved
		}
		return NewFileStore(path), nil
	case config.SessionBackendRedis:
		return NewRedisStore(ctx, cfg)
	case config.SessionBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
