package srcom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// CacheType represents the type of second-level store.
type CacheType string

const (
	// CacheTypeNone disables the second-level store.
	CacheTypeNone CacheType = "none"

	// CacheTypeNATS stores responses in a NATS JetStream key-value bucket.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeRedis stores responses in Redis.
	CacheTypeRedis CacheType = "redis"

	// CacheTypeChain puts a Redis store in front of a NATS bucket. Hits in
	// the bucket are copied into Redis.
	CacheTypeChain CacheType = "chain"
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrRedisConfigRequired   = errors.New("redis configuration required for redis cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig configures the second-level store.
type CacheConfig struct {
	// Type is the store backend type
	Type CacheType

	// TTL bounds how long stored responses are reused
	TTL time.Duration

	// NATS KV configuration
	NATS *NATSKVConfig

	// Redis configuration
	Redis *RedisConfig
}

// DefaultCacheConfig returns a configuration with no second-level store.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeNone,
		TTL:  constants.DefaultStoreTTL,
	}
}

// NewCacheFromConfig creates a store from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeNone, "":
		return NewNoOpCache(), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeRedis:
		if config.Redis == nil {
			return nil, ErrRedisConfigRequired
		}

		return NewRedisCache(config.Redis)

	case CacheTypeChain:
		return newChainFromConfig(config)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

func newChainFromConfig(config *CacheConfig) (*CacheChain, error) {
	if config.Redis == nil {
		return nil, ErrRedisConfigRequired
	}

	if config.NATS == nil {
		return nil, ErrNATSConfigRequired
	}

	near, err := NewRedisCache(config.Redis)
	if err != nil {
		return nil, err
	}

	far, err := NewNATSKVCache(config.NATS)
	if err != nil {
		_ = near.Close()

		return nil, err
	}

	return NewCacheChain(near, far), nil
}

// NoOpCache is a store that keeps nothing.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op store.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns an error (nothing stored).
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// CacheChain implements a chain of stores (L2, L3, ...).
type CacheChain struct {
	caches []Cache
}

// NewCacheChain creates a new store chain.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{
		caches: caches,
	}
}

// Get retrieves an entry from the first store holding it and copies it into
// the stores before it.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err == nil {
			for j := range i {
				_ = c.caches[j].Set(ctx, key, entry)
			}

			return entry, nil
		}
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set stores an entry in all stores.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var result *multierror.Error

	for _, cache := range c.caches {
		err := cache.Set(ctx, key, entry)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Delete removes an entry from all stores.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var result *multierror.Error

	for _, cache := range c.caches {
		err := cache.Delete(ctx, key)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Clear removes all entries from all stores.
func (c *CacheChain) Clear(ctx context.Context) error {
	var result *multierror.Error

	for _, cache := range c.caches {
		err := cache.Clear(ctx)
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// Has checks if a key exists in any store.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

// Close closes every store that holds a connection.
func (c *CacheChain) Close() error {
	var result *multierror.Error

	for _, cache := range c.caches {
		closer, ok := cache.(io.Closer)
		if !ok {
			continue
		}

		err := closer.Close()
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
