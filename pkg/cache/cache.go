package cache

import (
	"context"
	"fmt"
	"time"
)

// Default entry lifetimes.
const (
	// TTLLayout applies to committed layouts. They only change with the
	// plot's blueprint pin or overrides, both of which are part of the key.
	TTLLayout = 30 * 24 * time.Hour

	// TTLReport applies to analysis reports.
	TTLReport = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiring entries.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir is the FileCache directory.
	Dir   string
	Redis RedisOptions
}

// Open returns the backend named by cfg.Backend. An empty backend disables
// caching.
func Open(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
