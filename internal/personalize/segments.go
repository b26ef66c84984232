// Package personalize is a stand-in for a customer data platform and the
// Contentstack Personalize SDK. Segments are random; variant aliases flow from the
// SDK into a cookie that page requests read back.
package personalize

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/demolux/storefront/pkg/redis"
)

// SegmentPool is the fixed set of audience segments the mock CDP picks from.
var SegmentPool = []string{
	"luxury_shoppers",
	"eco_conscious",
	"new_visitors",
	"returning_customers",
	"high_value",
	"trend_followers",
	"gift_buyers",
}

// BadgePool is the fixed set of badges the mock CDP picks from.
var BadgePool = []string{
	"vip",
	"early_adopter",
	"loyalty_member",
	"newsletter_subscriber",
}

const (
	minSegments = 1
	maxSegments = 3
	maxBadges   = 2
)

// Profile is the audience data attached to a session.
type Profile struct {
	Segments    []string  `json:"segments"`
	Badges      []string  `json:"badges"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SegmentProvider resolves the audience profile of a session.
type SegmentProvider interface {
	Segments(ctx context.Context, sessionID string, refresh bool) (Profile, error)
}

// SessionCache keeps profiles per session. Get returns nil, nil on a miss.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*Profile, error)
	Set(ctx context.Context, sessionID string, profile Profile, ttl time.Duration) error
}

// MockCDP picks random segments and badges and caches them per session.
// Concurrent misses for one session share a single generated profile.
type MockCDP struct {
	cache SessionCache
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

// MockOption configures a MockCDP.
type MockOption func(*MockCDP)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) MockOption {
	return func(m *MockCDP) {
		if r != nil {
			m.rnd = r
		}
	}
}

func NewMockCDP(cache SessionCache, ttl time.Duration, opts ...MockOption) *MockCDP {
	if cache == nil {
		cache = NewMemorySessionCache()
	}
	m := &MockCDP{
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Segments returns the cached profile of sessionID, generating a new one on a
// miss or when refresh is set.
func (m *MockCDP) Segments(ctx context.Context, sessionID string, refresh bool) (Profile, error) {
	if refresh {
		return m.generate(ctx, sessionID)
	}
	cached, err := m.cache.Get(ctx, sessionID)
	if err != nil {
		return Profile{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	v, err, _ := m.group.Do(sessionID, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		cached, err := m.cache.Get(ctx, sessionID)
		if err != nil {
			return Profile{}, err
		}
		if cached != nil {
			return *cached, nil
		}
		return m.generate(ctx, sessionID)
	})
	return v.(Profile), err
}

func (m *MockCDP) generate(ctx context.Context, sessionID string) (Profile, error) {
	m.mu.Lock()
	profile := Profile{
		Segments:    pick(m.rnd, SegmentPool, minSegments+m.rnd.IntN(maxSegments-minSegments+1)),
		Badges:      pick(m.rnd, BadgePool, m.rnd.IntN(maxBadges+1)),
		GeneratedAt: m.now().UTC(),
	}
	m.mu.Unlock()

	if err := m.cache.Set(ctx, sessionID, profile, m.ttl); err != nil {
		return profile, err
	}
	return profile, nil
}

// pick returns n distinct values of pool in random order.
func pick(rnd *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

type cachedProfile struct {
	profile   Profile
	expiresAt time.Time
}

// MemorySessionCache is an in-process SessionCache.
type MemorySessionCache struct {
	mu       sync.Mutex
	profiles map[string]cachedProfile
	now      func() time.Time
}

func NewMemorySessionCache() *MemorySessionCache {
	return &MemorySessionCache{profiles: map[string]cachedProfile{}, now: time.Now}
}

func (c *MemorySessionCache) Get(_ context.Context, sessionID string) (*Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.profiles[sessionID]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.profiles, sessionID)
		return nil, nil
	}
	profile := entry.profile
	return &profile, nil
}

func (c *MemorySessionCache) Set(_ context.Context, sessionID string, profile Profile, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := cachedProfile{profile: profile}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.profiles[sessionID] = entry
	return nil
}

// RedisSessionCache stores profiles under the cdp_segments key namespace.
type RedisSessionCache struct {
	kv redis.KV
}

func NewRedisSessionCache(kv redis.KV) *RedisSessionCache {
	return &RedisSessionCache{kv: kv}
}

func (c *RedisSessionCache) Get(ctx context.Context, sessionID string) (*Profile, error) {
	raw, err := c.kv.Get(ctx, redis.SegmentKey(sessionID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		// Unreadable entries are treated as a miss and overwritten.
		return nil, nil
	}
	return &profile, nil
}

func (c *RedisSessionCache) Set(ctx context.Context, sessionID string, profile Profile, ttl time.Duration) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, redis.SegmentKey(sessionID), string(raw), ttl)
}
