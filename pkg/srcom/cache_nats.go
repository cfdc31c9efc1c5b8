package srcom

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// NATSKVConfig configures the NATS JetStream key-value store.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. nats://127.0.0.1:4222
	URL string

	// Bucket holding stored responses
	Bucket string

	// TTL applied by the bucket itself; zero keeps entries until overwritten
	TTL time.Duration

	// Conn reuses an existing connection instead of dialing URL
	Conn *nats.Conn
}

// NATSKVCache stores responses in a JetStream key-value bucket so several
// processes can share them.
type NATSKVCache struct {
	mu     sync.RWMutex
	conn   *nats.Conn
	js     jetstream.JetStream
	kv     jetstream.KeyValue
	config NATSKVConfig
	owned  bool
}

// NewNATSKVCache connects (unless Conn is set) and creates or binds the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	cfg := *config
	if cfg.Bucket == "" {
		cfg.Bucket = constants.DefaultNATSBucket
	}

	cache := &NATSKVCache{config: cfg, conn: cfg.Conn}

	if cache.conn == nil {
		url := cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}

		conn, err := nats.Connect(url, nats.Name("srcom-client"))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		cache.conn = conn
		cache.owned = true
	}

	js, err := jetstream.New(cache.conn)
	if err != nil {
		_ = cache.Close()

		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	cache.js = js

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	err = cache.bind(ctx)
	if err != nil {
		_ = cache.Close()

		return nil, err
	}

	return cache, nil
}

func (c *NATSKVCache) bind(ctx context.Context) error {
	kv, err := c.js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      c.config.Bucket,
		Description: "speedrun.com API responses",
		TTL:         c.config.TTL,
	})
	if err != nil {
		return fmt.Errorf("binding key-value bucket %s: %w", c.config.Bucket, err)
	}

	c.mu.Lock()
	c.kv = kv
	c.mu.Unlock()

	return nil
}

func (c *NATSKVCache) bucket() jetstream.KeyValue {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.kv
}

// natsKey maps a request URI onto the restricted KV key alphabet.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// Get retrieves a stored response.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	value, err := c.bucket().Get(ctx, natsKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}

		return nil, fmt.Errorf("getting %s from NATS: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(value.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding stored entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, ErrEntryExpired
	}

	return &entry, nil
}

// Set stores a response.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding stored entry: %w", err)
	}

	_, err = c.bucket().Put(ctx, natsKey(key), data)
	if err != nil {
		return fmt.Errorf("putting %s into NATS: %w", key, err)
	}

	return nil
}

// Delete removes a stored response.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.bucket().Delete(ctx, natsKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s from NATS: %w", key, err)
	}

	return nil
}

// Clear drops and recreates the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	err := c.js.DeleteKeyValue(ctx, c.config.Bucket)
	if err != nil && !errors.Is(err, jetstream.ErrBucketNotFound) {
		return fmt.Errorf("deleting bucket %s: %w", c.config.Bucket, err)
	}

	return c.bind(ctx)
}

// Has checks whether a live response is stored.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the connection if this store dialed it.
func (c *NATSKVCache) Close() error {
	if c.owned && c.conn != nil {
		c.conn.Close()
	}

	return nil
}
