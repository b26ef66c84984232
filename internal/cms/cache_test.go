package cms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/metrics"
	"github.com/demolux/storefront/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
)

type countingClient struct {
	entries int
	entry   int
	empty   bool
	err     error
}

func (c *countingClient) Entries(ctx context.Context, q Query) ([]json.RawMessage, error) {
	c.entries++
	if c.err != nil {
		return nil, c.err
	}
	if c.empty {
		return []json.RawMessage{}, nil
	}
	return []json.RawMessage{json.RawMessage(`{"uid":"blt_1"}`)}, nil
}

func (c *countingClient) Entry(ctx context.Context, q Query, uid string) (json.RawMessage, error) {
	c.entry++
	if c.err != nil {
		return nil, c.err
	}
	return json.RawMessage(`{"uid":"` + uid + `"}`), nil
}

func TestCachedClientServesRepeatedQueries(t *testing.T) {
	ctx := context.Background()
	next := &countingClient{}
	reg := prometheus.NewRegistry()
	client := NewCachedClient(next, NewMemoryCache(0), time.Minute, metrics.NewCMSMetrics(reg), nil)

	q := Query{ContentType: ContentTypeProduct, Where: map[string]any{"category": "bags"}}
	for i := 0; i < 3; i++ {
		entries, err := client.Entries(ctx, q)
		if err != nil {
			t.Fatalf("entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("unexpected entries %v", entries)
		}
	}
	if next.entries != 1 {
		t.Fatalf("expected one upstream call, got %d", next.entries)
	}

	if _, err := client.Entry(ctx, q, "blt_x"); err != nil {
		t.Fatalf("entry: %v", err)
	}
	raw, err := client.Entry(ctx, q, "blt_x")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if string(raw) != `{"uid":"blt_x"}` {
		t.Fatalf("unexpected cached entry %s", raw)
	}
	if next.entry != 1 {
		t.Fatalf("expected one upstream entry call, got %d", next.entry)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			counts[mf.GetName()] += m.GetCounter().GetValue()
		}
	}
	if counts["storefront_cms_cache_hits_total"] != 3 {
		t.Fatalf("expected 3 hits, got %v", counts["storefront_cms_cache_hits_total"])
	}
	if counts["storefront_cms_cache_misses_total"] != 2 {
		t.Fatalf("expected 2 misses, got %v", counts["storefront_cms_cache_misses_total"])
	}
}

func TestCachedClientDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := &countingClient{err: pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")}
	client := NewCachedClient(next, NewMemoryCache(0), time.Minute, nil, nil)

	for i := 0; i < 2; i++ {
		if _, err := client.Entry(ctx, Query{ContentType: ContentTypePage}, "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if next.entry != 2 {
		t.Fatalf("errors must not be cached, got %d upstream calls", next.entry)
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func TestCachedClientFallsThroughOnCacheFailure(t *testing.T) {
	next := &countingClient{}
	client := NewCachedClient(next, failingCache{}, time.Minute, nil, nil)
	entries, err := client.Entries(context.Background(), Query{ContentType: ContentTypeProduct})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || next.entries != 1 {
		t.Fatalf("expected upstream result, got %v (%d calls)", entries, next.entries)
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok, _ := cache.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Fatalf("expected fresh hit")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCachedClientDoesNotCacheEmptyResults(t *testing.T) {
	ctx := context.Background()
	next := &countingClient{empty: true}
	cache := NewMemoryCache(0)
	client := NewCachedClient(next, cache, time.Minute, nil, nil)

	for i := 0; i < 3; i++ {
		q := Query{ContentType: ContentTypePage, Where: map[string]any{"url": "/missing-" + string(rune('a'+i))}}
		entries, err := client.Entries(ctx, q)
		if err != nil {
			t.Fatalf("entries: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected no entries, got %v", entries)
		}
	}
	if cache.Len() != 0 {
		t.Fatalf("empty results must not be stored, cache holds %d", cache.Len())
	}
}

func TestMemoryCacheIsBounded(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, key, []byte(key), time.Hour); err != nil {
			t.Fatalf("set: %v", err)
		}
		now = now.Add(time.Second)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected cap of 2, got %d", cache.Len())
	}
	if _, ok, _ := cache.Get(ctx, "a"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if _, ok, _ := cache.Get(ctx, "c"); !ok {
		t.Fatalf("expected newest entry to stay")
	}

	if err := cache.Set(ctx, "b", []byte("b2"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, ok, _ := cache.Get(ctx, "c"); !ok || string(got) != "c" {
		t.Fatalf("overwriting a key must not evict others")
	}
}

func TestMemoryCachePurgeExpired(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	_ = cache.Set(ctx, "short", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "long", []byte("2"), time.Hour)
	now = now.Add(2 * time.Minute)

	removed, err := cache.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 || cache.Len() != 1 {
		t.Fatalf("expected one expired entry removed, got %d (len %d)", removed, cache.Len())
	}

	_ = cache.Set(ctx, "short", []byte("1"), time.Minute)
	now = now.Add(2 * time.Minute)
	_ = cache.Set(ctx, "next", []byte("3"), time.Hour)
	if _, ok, _ := cache.Get(ctx, "long"); !ok {
		t.Fatalf("a full cache must drop expired entries before live ones")
	}
}

type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestRedisCacheNamespacesKeys(t *testing.T) {
	ctx := context.Background()
	kv := &fakeKV{data: map[string]string{}}
	cache := NewRedisCache(kv)

	if _, ok, err := cache.Get(ctx, "product:entries:abc"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := cache.Set(ctx, "product:entries:abc", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := kv.data["demolux:cms:product:entries:abc"]; !ok {
		t.Fatalf("expected namespaced key, got %v", kv.data)
	}
	got, ok, err := cache.Get(ctx, "product:entries:abc")
	if err != nil || !ok || string(got) != "[]" {
		t.Fatalf("unexpected get result %q ok=%v err=%v", got, ok, err)
	}
}
