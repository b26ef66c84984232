// Package cms talks to the Contentstack Content Delivery API.
package cms

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Content type UIDs of the stack.
const (
	ContentTypePage         = "page"
	ContentTypeNavigation   = "navigation"
	ContentTypeSiteSettings = "site_settings"
	ContentTypeProduct      = "product"
	ContentTypeBlogPost     = "blog_post"
	ContentTypeCollection   = "collection"
	ContentTypeLookbook     = "lookbook"
)

// Query selects entries of one content type.
type Query struct {
	ContentType string
	// Where is sent as the JSON "query" parameter, e.g. {"url": "/about"}.
	Where   map[string]any
	Include []string
	Limit   int
	Skip    int
	Locale  string
	// Variants are personalization aliases sent as x-cs-variant-uid.
	Variants []string
}

// Client is the delivery boundary used by the content service.
type Client interface {
	Entries(ctx context.Context, q Query) ([]json.RawMessage, error)
	Entry(ctx context.Context, q Query, uid string) (json.RawMessage, error)
}

// CacheKey returns a stable identifier for q, used by caching decorators.
func (q Query) CacheKey() string {
	where, _ := json.Marshal(q.Where)
	include := append([]string(nil), q.Include...)
	sort.Strings(include)
	variants := normalizeVariants(q.Variants)
	parts := []string{
		q.ContentType,
		string(where),
		strings.Join(include, ","),
		strconv.Itoa(q.Limit),
		strconv.Itoa(q.Skip),
		q.Locale,
		strings.Join(variants, ","),
	}
	return strings.Join(parts, "|")
}

func normalizeVariants(aliases []string) []string {
	out := make([]string, 0, len(aliases))
	seen := map[string]struct{}{}
	for _, alias := range aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if _, ok := seen[alias]; ok {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
