package srcom

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Static errors for err113 compliance.
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrEntryExpired  = errors.New("entry expired")
	ErrInvalidBound  = errors.New("cache bound must be positive")
	ErrNilFetchFunc  = errors.New("fetch function is required")
	ErrStoreRequired = errors.New("store is required")
)

// Cache is a second-level response store shared beyond one client, keyed by
// request URI and holding raw response bodies.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is one stored response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry. A zero ExpiresAt
// never expires.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// CacheStats counts request cache activity.
type CacheStats struct {
	Hits      int64 `json:"hits"       yaml:"hits"`
	Misses    int64 `json:"misses"     yaml:"misses"`
	Evictions int64 `json:"evictions"  yaml:"evictions"`
	StoreHits int64 `json:"store_hits" yaml:"store_hits"`
}

// FetchFunc performs the transport call for a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// RequestCache is the per-client bounded LRU of parsed responses. The whole
// lookup, fetch, insert and evict sequence runs under one mutex, so
// concurrent callers are serialized.
type RequestCache struct {
	mu       sync.Mutex
	entries  *simplelru.LRU[string, Node]
	store    Cache
	storeTTL time.Duration
	logger   Logger
	stats    CacheStats
	now      func() time.Time
}

// RequestCacheOption configures a RequestCache.
type RequestCacheOption func(*RequestCache)

// WithStore adds a second-level store consulted on misses before the
// transport. ttl bounds how long stored bodies are reused.
func WithStore(store Cache, ttl time.Duration) RequestCacheOption {
	return func(c *RequestCache) {
		c.store = store
		c.storeTTL = ttl
	}
}

// WithCacheLogger logs hits, misses and evictions at debug level.
func WithCacheLogger(logger Logger) RequestCacheOption {
	return func(c *RequestCache) {
		c.logger = logger
	}
}

// NewRequestCache creates a cache holding at most bound responses.
func NewRequestCache(bound int, opts ...RequestCacheOption) (*RequestCache, error) {
	if bound <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBound, bound)
	}

	cache := &RequestCache{now: time.Now}

	for _, opt := range opts {
		opt(cache)
	}

	entries, err := simplelru.NewLRU[string, Node](bound, cache.onEvict)
	if err != nil {
		return nil, fmt.Errorf("creating request cache: %w", err)
	}

	cache.entries = entries

	return cache, nil
}

func (c *RequestCache) onEvict(key string, _ Node) {
	c.stats.Evictions++
	c.debug("request cache evict", map[string]interface{}{"uri": key})
}

// GetOrFetch returns the cached response for key, or calls fetch, caches the
// parsed body and evicts the oldest entry when over the bound. Failures are
// not cached.
func (c *RequestCache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) (Node, error) {
	if fetch == nil {
		return Node{}, ErrNilFetchFunc
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Get moves a hit to the most-recent position.
	node, ok := c.entries.Get(key)
	if ok {
		c.stats.Hits++
		c.debug("request cache hit", map[string]interface{}{"uri": key})

		return node, nil
	}

	c.stats.Misses++
	c.debug("request cache miss", map[string]interface{}{"uri": key})

	node, ok = c.fromStore(ctx, key)
	if ok {
		c.stats.StoreHits++
		c.entries.Add(key, node)

		return node, nil
	}

	body, err := fetch(ctx)
	if err != nil {
		return Node{}, err
	}

	node, err = ParseNode(body)
	if err != nil {
		return Node{}, &TransportError{URI: key, Err: err}
	}

	c.entries.Add(key, node)
	c.toStore(ctx, key, body)

	return node, nil
}

func (c *RequestCache) fromStore(ctx context.Context, key string) (Node, bool) {
	if c.store == nil {
		return Node{}, false
	}

	entry, err := c.store.Get(ctx, key)
	if err != nil || entry == nil || entry.Expired(c.now()) {
		return Node{}, false
	}

	node, err := ParseNode(entry.Data)
	if err != nil {
		c.warn("discarding unparseable stored response", map[string]interface{}{"uri": key})

		return Node{}, false
	}

	return node, true
}

func (c *RequestCache) toStore(ctx context.Context, key string, body []byte) {
	if c.store == nil {
		return
	}

	now := c.now()
	entry := &CacheEntry{Data: body, StoredAt: now}

	if c.storeTTL > 0 {
		entry.ExpiresAt = now.Add(c.storeTTL)
	}

	err := c.store.Set(ctx, key, entry)
	if err != nil {
		c.warn("storing response failed", map[string]interface{}{"uri": key, "error": err.Error()})
	}
}

// Len returns the number of cached responses.
func (c *RequestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Len()
}

// Keys returns the cached request URIs from oldest to most recent.
func (c *RequestCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Keys()
}

// Contains reports whether key is cached without touching its recency.
func (c *RequestCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries.Contains(key)
}

// Stats returns a snapshot of the cache counters.
func (c *RequestCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// Purge drops every cached response. The second-level store is untouched.
func (c *RequestCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
}

// Store returns the second-level store, or nil.
func (c *RequestCache) Store() Cache {
	return c.store
}

func (c *RequestCache) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func (c *RequestCache) warn(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}
