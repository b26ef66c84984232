package personalize

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/demolux/storefront/pkg/config"
	"github.com/demolux/storefront/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCDPRanges(t *testing.T) {
	ctx := context.Background()
	cdp := NewMockCDP(nil, time.Hour, WithRand(rand.New(rand.NewPCG(1, 2))))

	inPool := func(pool []string, v string) bool {
		for _, candidate := range pool {
			if candidate == v {
				return true
			}
		}
		return false
	}
	for i := 0; i < 200; i++ {
		profile, err := cdp.Segments(ctx, "s", true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(profile.Segments), 1)
		assert.LessOrEqual(t, len(profile.Segments), 3)
		assert.LessOrEqual(t, len(profile.Badges), 2)

		seen := map[string]bool{}
		for _, s := range profile.Segments {
			assert.True(t, inPool(SegmentPool, s), "unknown segment %q", s)
			assert.False(t, seen[s], "duplicate segment %q", s)
			seen[s] = true
		}
		for _, b := range profile.Badges {
			assert.True(t, inPool(BadgePool, b), "unknown badge %q", b)
		}
	}
}

func TestMockCDPCachesPerSession(t *testing.T) {
	ctx := context.Background()
	cdp := NewMockCDP(NewMemorySessionCache(), time.Hour)

	first, err := cdp.Segments(ctx, "a", false)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := cdp.Segments(ctx, "a", false)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	changed := false
	for i := 0; i < 50 && !changed; i++ {
		refreshed, err := cdp.Segments(ctx, "a", true)
		require.NoError(t, err)
		changed = !assert.ObjectsAreEqual(first.Segments, refreshed.Segments) || !assert.ObjectsAreEqual(first.Badges, refreshed.Badges)
	}
	assert.True(t, changed, "refresh should eventually produce a new profile")

	latest, err := cdp.Segments(ctx, "a", false)
	require.NoError(t, err)
	other, err := cdp.Segments(ctx, "a", false)
	require.NoError(t, err)
	assert.Equal(t, latest, other, "refreshed profile is cached")
}

// gatedCache holds the first n lookups until all of them have arrived, so every
// caller observes the same miss.
type gatedCache struct {
	*MemorySessionCache
	n       int32
	arrived atomic.Int32
	open    chan struct{}
	once    sync.Once
	sets    atomic.Int32
}

func (c *gatedCache) Get(ctx context.Context, sessionID string) (*Profile, error) {
	if c.arrived.Add(1) <= c.n {
		if c.arrived.Load() >= c.n {
			c.once.Do(func() { close(c.open) })
		}
		<-c.open
	}
	return c.MemorySessionCache.Get(ctx, sessionID)
}

func (c *gatedCache) Set(ctx context.Context, sessionID string, profile Profile, ttl time.Duration) error {
	c.sets.Add(1)
	return c.MemorySessionCache.Set(ctx, sessionID, profile, ttl)
}

func TestMockCDPConcurrentMissesShareOneProfile(t *testing.T) {
	const callers = 8
	cache := &gatedCache{MemorySessionCache: NewMemorySessionCache(), n: callers, open: make(chan struct{})}
	cdp := NewMockCDP(cache, time.Hour)

	profiles := make([]Profile, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			profile, err := cdp.Segments(context.Background(), "same-session", false)
			assert.NoError(t, err)
			profiles[i] = profile
		}(i)
	}
	wg.Wait()

	for _, p := range profiles[1:] {
		assert.Equal(t, profiles[0], p)
	}
	assert.Equal(t, int32(1), cache.sets.Load(), "one profile generated for the session")
}

func TestMemorySessionCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemorySessionCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "s", Profile{Segments: []string{"vip"}}, time.Minute))
	got, err := cache.Get(ctx, "s")
	require.NoError(t, err)
	require.NotNil(t, got)

	now = now.Add(time.Hour)
	got, err = cache.Get(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, got)
}

type mapKV map[string]string

func (m mapKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return v, nil
}

func (m mapKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m[key] = value.(string)
	return nil
}

func (m mapKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

func TestRedisSessionCache(t *testing.T) {
	ctx := context.Background()
	kv := mapKV{}
	cache := NewRedisSessionCache(kv)

	got, err := cache.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "sess", Profile{Segments: []string{"eco_conscious"}, Badges: []string{}}, time.Minute))
	assert.Contains(t, kv, "demolux:cdp_segments:sess")

	got, err = cache.Get(ctx, "sess")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"eco_conscious"}, got.Segments)

	kv["demolux:cdp_segments:sess"] = "{broken"
	got, err = cache.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLiveAttributes(t *testing.T) {
	query := url.Values{"utm_source": {"newsletter", "ignored"}, "cdp_segments": {"spoofed"}, "": {"x"}}
	attrs := LiveAttributes(Profile{Segments: []string{"a", "b"}, Badges: []string{"vip"}}, query)

	assert.Equal(t, map[string]string{
		"utm_source":   "newsletter",
		"cdp_segments": "a,b",
		"cdp_badges":   "vip",
	}, attrs)

	empty := LiveAttributes(Profile{}, nil)
	assert.Equal(t, "", empty[AttrSegments])
	assert.Equal(t, "", empty[AttrBadges])
}

func TestVariantsCookieRoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	cookie := VariantsCookieFor([]string{"cs_personalize_0_1", "cs_personalize_2_0"}, true, now)

	assert.Equal(t, VariantsCookie, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, now.Add(24*time.Hour), cookie.Expires)
	assert.True(t, cookie.Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.Equal(t, []string{"cs_personalize_0_1", "cs_personalize_2_0"}, ReadVariants(req))

	rec := httptest.NewRecorder()
	WriteVariants(rec, nil, false)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), VariantsCookie+"=")
}

func TestParseVariants(t *testing.T) {
	assert.Nil(t, ParseVariants(""))
	assert.Nil(t, ParseVariants("not json"))
	assert.Nil(t, ParseVariants(`{"a":1}`))
	assert.Equal(t, []string{"x", "y"}, ParseVariants(`["x"," ","y"]`))
	assert.Equal(t, []string{"x"}, ParseVariants(url.QueryEscape(`["x"]`)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, ReadVariants(req))
}

func TestVariantsContext(t *testing.T) {
	ctx := WithVariants(context.Background(), []string{"a"})
	assert.Equal(t, []string{"a"}, VariantsFromContext(ctx))
	assert.Nil(t, VariantsFromContext(context.Background()))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestEdgeClientVariants(t *testing.T) {
	var calls []string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls = append(calls, req.Method+" "+req.URL.Path)
		assert.Equal(t, "proj_1", req.Header.Get("x-project-uid"))
		assert.Equal(t, "user-1", req.Header.Get("x-cs-personalize-user-uid"))
		body := `{}`
		if req.URL.Path == "/manifest" {
			body = `{"experiences":[{"shortUid":"0","activeVariantShortUid":"1"},{"shortUid":"2","activeVariantShortUid":""}]}`
		} else {
			raw, _ := io.ReadAll(req.Body)
			var attrs map[string]string
			require.NoError(t, json.Unmarshal(raw, &attrs))
			assert.Equal(t, "vip", attrs["cdp_badges"])
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{}}, nil
	})

	client, err := NewEdgeClient(config.PersonalizeConfig{
		Enabled:    true,
		ProjectUID: "proj_1",
		EdgeURL:    "https://edge.test/",
	}, WithEdgeHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)

	aliases, err := client.Variants(context.Background(), "user-1", map[string]string{"cdp_badges": "vip"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_personalize_0_1"}, aliases)
	assert.Equal(t, []string{"PATCH /user-attributes", "GET /manifest"}, calls)
}

func TestEdgeClientErrors(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(strings.NewReader("denied")), Header: http.Header{}}, nil
	})
	client, err := NewEdgeClient(config.PersonalizeConfig{ProjectUID: "p", EdgeURL: "https://edge.test"}, WithEdgeHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	_, err = client.Variants(context.Background(), "u", nil)
	require.Error(t, err)

	_, err = NewEdgeClient(config.PersonalizeConfig{EdgeURL: "https://edge.test"})
	require.Error(t, err)
}

func TestNewSDKGating(t *testing.T) {
	sdk, err := NewSDK(config.PersonalizeConfig{})
	require.NoError(t, err)
	assert.False(t, sdk.Configured())

	sdk, err = NewSDK(config.PersonalizeConfig{Enabled: true, StaticVariants: []string{"cs_personalize_0_1", " "}})
	require.NoError(t, err)
	require.True(t, sdk.Configured())
	aliases, err := sdk.Variants(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_personalize_0_1"}, aliases)

	sdk, err = NewSDK(config.PersonalizeConfig{Enabled: true, ProjectUID: "p", EdgeURL: "https://edge.test"})
	require.NoError(t, err)
	_, ok := sdk.(*EdgeClient)
	assert.True(t, ok)
}

type countingSDK struct {
	calls int
}

func (c *countingSDK) Variants(context.Context, string, map[string]string) ([]string, error) {
	c.calls++
	return []string{"cs_personalize_1_0"}, nil
}

func (c *countingSDK) Configured() bool { return true }

type recordingTracker struct {
	events []Event
	err    error
}

func (r *recordingTracker) Track(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestServiceResolveAndTrack(t *testing.T) {
	ctx := context.Background()
	sdk := &countingSDK{}
	tracker := &recordingTracker{}
	svc, err := NewService(NewMockCDP(nil, time.Hour), sdk, tracker, nil)
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, "sess", url.Values{"campaign": {"spring"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"cs_personalize_1_0"}, res.Variants)
	assert.Equal(t, "spring", res.Attributes["campaign"])
	assert.NotEmpty(t, res.Attributes[AttrSegments])
	assert.Equal(t, 1, sdk.calls)

	tracked, err := svc.Track(ctx, Event{Type: EventImpression, Aliases: res.Variants})
	require.NoError(t, err)
	assert.True(t, tracked)
	require.Len(t, tracker.events, 1)
	assert.NotEmpty(t, tracker.events[0].ID)
	assert.False(t, tracker.events[0].OccurredAt.IsZero())

	tracker.err = errors.New("down")
	_, err = svc.Track(ctx, Event{Type: EventConversion})
	require.Error(t, err)
}

func TestServiceSkipsCallsWhenNotConfigured(t *testing.T) {
	ctx := context.Background()
	tracker := &recordingTracker{}
	svc, err := NewService(NewMockCDP(nil, time.Hour), nil, tracker, nil)
	require.NoError(t, err)
	assert.False(t, svc.Configured())

	res, err := svc.Resolve(ctx, "sess", nil)
	require.NoError(t, err)
	assert.Empty(t, res.Variants)

	tracked, err := svc.Track(ctx, Event{Type: EventImpression})
	require.NoError(t, err)
	assert.False(t, tracked)
	assert.Empty(t, tracker.events)

	_, err = NewService(nil, nil, nil, nil)
	require.Error(t, err)
}

type fakePublisher struct {
	msgs []*gcppubsub.Message
	err  error
}

type fakeResult struct {
	err error
}

func (f fakeResult) Get(context.Context) (string, error) {
	return "server-id", f.err
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.msgs = append(f.msgs, msg)
	return fakeResult{err: f.err}
}

func TestPubSubTrackerPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	tracker := &PubSubTracker{pub: pub}
	event := stamp(Event{Type: EventImpression, Aliases: []string{"cs_personalize_0_1"}, Path: "/"}, time.Now())

	require.NoError(t, tracker.Track(context.Background(), event))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, event.ID, pub.msgs[0].Attributes["event_id"])
	assert.Equal(t, "impression", pub.msgs[0].Attributes["event_type"])

	var decoded Event
	require.NoError(t, json.Unmarshal(pub.msgs[0].Data, &decoded))
	assert.Equal(t, event.Aliases, decoded.Aliases)

	pub.err = errors.New("unavailable")
	require.Error(t, tracker.Track(context.Background(), event))

	_, err := NewPubSubTracker(nil)
	require.Error(t, err)
}

func TestEventTypeValidation(t *testing.T) {
	assert.True(t, EventImpression.IsValid())
	assert.True(t, EventConversion.IsValid())
	assert.False(t, EventType("click").IsValid())
}
