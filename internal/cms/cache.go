package cms

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/demolux/storefront/pkg/logger"
	"github.com/demolux/storefront/pkg/metrics"
	"github.com/demolux/storefront/pkg/redis"
)

// Cache stores serialized delivery responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DefaultMaxEntries bounds a MemoryCache created with a non-positive size.
const DefaultMaxEntries = 4096

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	storedAt  time.Time
}

// MemoryCache is a process-local Cache holding at most maxEntries responses.
// When full, expired entries go first, then the oldest write.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{entries: map[string]memoryEntry{}, maxEntries: maxEntries, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(m.now()) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	entry := memoryEntry{value: value, storedAt: now}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		if m.purgeLocked(now) == 0 {
			m.evictOldestLocked()
		}
	}
	m.entries[key] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// PurgeExpired drops every expired entry and returns how many were removed.
func (m *MemoryCache) PurgeExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(m.purgeLocked(m.now())), nil
}

func (m *MemoryCache) purgeLocked(now time.Time) int {
	removed := 0
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryCache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, entry := range m.entries {
		if !found || entry.storedAt.Before(oldest) {
			oldestKey, oldest, found = key, entry.storedAt, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// RedisCache shares cached responses across instances.
type RedisCache struct {
	kv redis.KV
}

func NewRedisCache(kv redis.KV) *RedisCache {
	return &RedisCache{kv: kv}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.kv.Get(ctx, redis.CacheKey(key))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.kv.Set(ctx, redis.CacheKey(key), string(value), ttl)
}

// CachedClient serves repeated queries from a Cache. Cache failures fall through to
// the wrapped client; errors and empty result sets are never cached.
type CachedClient struct {
	next    Client
	cache   Cache
	ttl     time.Duration
	metrics *metrics.CMSMetrics
	logg    *logger.Logger
}

func NewCachedClient(next Client, cache Cache, ttl time.Duration, m *metrics.CMSMetrics, logg *logger.Logger) *CachedClient {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedClient{next: next, cache: cache, ttl: ttl, metrics: m, logg: logg}
}

func (c *CachedClient) Entries(ctx context.Context, q Query) ([]json.RawMessage, error) {
	key := cacheKey(q.ContentType, "entries", q.CacheKey())
	if raw, ok := c.lookup(ctx, q.ContentType, key); ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}

	entries, err := c.next.Entries(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		c.store(ctx, key, entries)
	}
	return entries, nil
}

func (c *CachedClient) Entry(ctx context.Context, q Query, uid string) (json.RawMessage, error) {
	key := cacheKey(q.ContentType, "entry", uid+"|"+q.CacheKey())
	if raw, ok := c.lookup(ctx, q.ContentType, key); ok {
		return json.RawMessage(raw), nil
	}

	entry, err := c.next.Entry(ctx, q, uid)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, entry)
	return entry, nil
}

func (c *CachedClient) lookup(ctx context.Context, contentType, key string) ([]byte, bool) {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "cms.cache_get_failed")
	}
	if err != nil || !ok {
		c.metrics.IncCacheMiss(contentType)
		return nil, false
	}
	c.metrics.IncCacheHit(contentType)
	return raw, true
}

func (c *CachedClient) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "cms.cache_set_failed")
	}
}

func cacheKey(contentType, kind, identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return contentType + ":" + kind + ":" + hex.EncodeToString(sum[:16])
}
