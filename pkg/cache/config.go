package cache

import "time"

const (
	TypeMemory  = "memory"
	TypeRedis   = "redis"
	TypeLayered = "layered"
)

// Config selects and tunes the cache backend. Temp download keys only
// survive a restart with a Redis-backed type.
type Config struct {
	Type   string        `yaml:"type" default:"memory"`
	L1TTL  time.Duration `yaml:"l1_ttl" default:"1m"`
	Memory MemoryConfig  `yaml:"memory"`
	Redis  RedisConfig   `yaml:"redis"`
}

// MemoryConfig tunes the in-process cache.
type MemoryConfig struct {
	MaxEntries      int           `yaml:"max_entries" default:"10000"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1m"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	PoolSize    int           `yaml:"pool_size" default:"10"`
	DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
	Prefix      string        `yaml:"prefix" default:"ytm4a"`
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxSize         int
	cleanupInterval time.Duration
	now             func() time.Time
}

// WithMemoryMaxSize caps the number of entries before LRU eviction.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxSize = size
	}
}

// WithMemoryCleanup sets how often expired entries are purged.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = interval
	}
}

// WithMemoryClock overrides the time source used for expiry.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		o.now = now
	}
}
