package srcom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces keys; defaults to "srcom:response:"
	Prefix string

	// Client reuses an existing client instead of dialing Addr
	Client *redis.Client
}

// RedisCache stores responses in Redis with a per-key expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewRedisCache connects (unless Client is set) and pings the server.
func NewRedisCache(config *RedisConfig) (*RedisCache, error) {
	if config == nil {
		return nil, ErrRedisConfigRequired
	}

	cache := &RedisCache{client: config.Client, prefix: config.Prefix}
	if cache.prefix == "" {
		cache.prefix = constants.DefaultRedisPrefix
	}

	if cache.client == nil {
		cache.client = redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		})
		cache.owned = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	err := cache.client.Ping(ctx).Err()
	if err != nil {
		_ = cache.Close()

		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return cache, nil
}

// Get retrieves a stored response.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("getting %s from redis: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding stored entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, ErrEntryExpired
	}

	return &entry, nil
}

// Set stores a response; the Redis key expires with the entry.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding stored entry: %w", err)
	}

	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	err = c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("setting %s in redis: %w", key, err)
	}

	return nil
}

// Delete removes a stored response.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.prefix+key).Err()
	if err != nil {
		return fmt.Errorf("deleting %s from redis: %w", key, err)
	}

	return nil
}

// Clear removes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			return fmt.Errorf("clearing redis key %s: %w", iter.Val(), err)
		}
	}

	err := iter.Err()
	if err != nil {
		return fmt.Errorf("scanning redis keys: %w", err)
	}

	return nil
}

// Has checks whether a key exists.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()

	return err == nil && n > 0
}

// Close releases the client if this store created it.
func (c *RedisCache) Close() error {
	if c.owned {
		return c.client.Close()
	}

	return nil
}
