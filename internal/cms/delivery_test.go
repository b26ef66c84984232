package cms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/demolux/storefront/pkg/config"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testStack() config.ContentstackConfig {
	return config.ContentstackConfig{
		APIKey:        "blt_api",
		DeliveryToken: "cs_token",
		Environment:   "production",
		BaseURL:       "https://cdn.test/",
		Branch:        "main",
		Locale:        "en-us",
	}
}

func TestDeliveryClientEntriesRequest(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"entries":[{"uid":"blt_1"},{"uid":"blt_2"}]}`), nil
	})

	client, err := NewDeliveryClient(testStack(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	entries, err := client.Entries(context.Background(), Query{
		ContentType: ContentTypeProduct,
		Where:       map[string]any{"category": "bags"},
		Include:     []string{"featured_image"},
		Limit:       4,
		Skip:        2,
		Variants:    []string{"cs_personalize_1_0", " cs_personalize_0_1", "cs_personalize_1_0"},
	})
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if captured.URL.Path != "/v3/content_types/product/entries" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	params := captured.URL.Query()
	want := url.Values{
		"environment": {"production"},
		"locale":      {"en-us"},
		"query":       {`{"category":"bags"}`},
		"include[]":   {"featured_image"},
		"limit":       {"4"},
		"skip":        {"2"},
	}
	for key, values := range want {
		if params.Get(key) != values[0] {
			t.Fatalf("param %s: expected %q got %q", key, values[0], params.Get(key))
		}
	}
	if captured.Header.Get("api_key") != "blt_api" || captured.Header.Get("access_token") != "cs_token" {
		t.Fatalf("credentials headers missing: %v", captured.Header)
	}
	if captured.Header.Get("branch") != "main" {
		t.Fatalf("branch header missing")
	}
	if got := captured.Header.Get("x-cs-variant-uid"); got != "cs_personalize_0_1,cs_personalize_1_0" {
		t.Fatalf("unexpected variant header %q", got)
	}
}

func TestDeliveryClientEntryByUID(t *testing.T) {
	var path string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		return jsonResponse(http.StatusOK, `{"entry":{"uid":"blt_stats","metrics":[]}}`), nil
	})
	client, err := NewDeliveryClient(testStack(), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	entry, err := client.Entry(context.Background(), Query{ContentType: "statistics_block"}, "blt_stats")
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if path != "/v3/content_types/statistics_block/entries/blt_stats" {
		t.Fatalf("unexpected path %q", path)
	}
	if !strings.Contains(string(entry), `"blt_stats"`) {
		t.Fatalf("unexpected entry %s", entry)
	}

	if _, err := client.Entry(context.Background(), Query{ContentType: "statistics_block"}, " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for blank uid, got %v", err)
	}
}

func TestDeliveryClientStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		code   pkgerrors.Code
	}{
		{name: "not found", status: http.StatusNotFound, code: pkgerrors.CodeNotFound},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, code: pkgerrors.CodeNotFound},
		{name: "server error", status: http.StatusBadGateway, code: pkgerrors.CodeDependency},
		{name: "unauthorized", status: http.StatusUnauthorized, code: pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, `{"error_message":"nope"}`), nil
			})
			client, err := NewDeliveryClient(testStack(), WithHTTPClient(&http.Client{Transport: rt}))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.Entries(context.Background(), Query{ContentType: ContentTypePage})
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestNewDeliveryClientRequiresCredentials(t *testing.T) {
	cfg := testStack()
	cfg.APIKey = ""
	if _, err := NewDeliveryClient(cfg); err == nil {
		t.Fatalf("expected error without api key")
	}
	cfg = testStack()
	cfg.DeliveryToken = " "
	if _, err := NewDeliveryClient(cfg); err == nil {
		t.Fatalf("expected error without delivery token")
	}
}

func TestBaseURL(t *testing.T) {
	cases := []struct {
		cfg  config.ContentstackConfig
		want string
	}{
		{cfg: config.ContentstackConfig{}, want: "https://cdn.contentstack.io"},
		{cfg: config.ContentstackConfig{Region: "EU"}, want: "https://eu-cdn.contentstack.com"},
		{cfg: config.ContentstackConfig{Region: "azure-na"}, want: "https://azure-na-cdn.contentstack.com"},
		{cfg: config.ContentstackConfig{Region: "eu", BaseURL: "http://localhost:4000/"}, want: "http://localhost:4000"},
	}
	for _, tc := range cases {
		got, err := BaseURL(tc.cfg)
		if err != nil {
			t.Fatalf("base url %+v: %v", tc.cfg, err)
		}
		if got != tc.want {
			t.Fatalf("expected %q got %q", tc.want, got)
		}
	}
	if _, err := BaseURL(config.ContentstackConfig{Region: "mars"}); err == nil {
		t.Fatalf("expected error for unknown region")
	}
}

func TestQueryCacheKeyIgnoresVariantOrder(t *testing.T) {
	a := Query{ContentType: ContentTypeProduct, Variants: []string{"b", "a"}, Include: []string{"y", "x"}}
	b := Query{ContentType: ContentTypeProduct, Variants: []string{"a", "b", "a"}, Include: []string{"x", "y"}}
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("expected equal cache keys:\n%s\n%s", a.CacheKey(), b.CacheKey())
	}
	c := Query{ContentType: ContentTypeProduct, Variants: []string{"a"}}
	if a.CacheKey() == c.CacheKey() {
		t.Fatalf("different variants must not share a cache key")
	}
}
