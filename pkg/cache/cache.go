package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache: key not found")

// Service is the key/value store behind temp download keys and market data.
// Values are stored as JSON; strings and byte slices are stored as-is.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	// Keys lists live keys matching a glob pattern such as "temp:*".
	Keys(ctx context.Context, pattern string) ([]string, error)
	Close() error
}

// New builds the backend named by cfg.Type. Redis-backed types ping the
// server before returning.
func New(ctx context.Context, cfg Config) (Service, error) {
	mem := func() *MemoryCache {
		return NewMemoryCache(
			WithMemoryMaxSize(cfg.Memory.MaxEntries),
			WithMemoryCleanup(cfg.Memory.CleanupInterval),
		)
	}

	switch cfg.Type {
	case "", TypeMemory:
		return mem(), nil
	case TypeRedis, TypeLayered:
		rc, err := NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		if cfg.Type == TypeRedis {
			return rc, nil
		}
		return NewLayeredCache(mem(), rc, cfg.L1TTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown type %q", cfg.Type)
	}
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(value)
	}
}

func decode(data []byte, dest interface{}) error {
	switch d := dest.(type) {
	case *string:
		*d = string(data)
		return nil
	case *[]byte:
		*d = append((*d)[:0], data...)
		return nil
	default:
		return json.Unmarshal(data, dest)
	}
}
