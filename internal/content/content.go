// Package content is the storefront's data service. It fetches CMS entries through a
// cms.Client and shapes them into the values the renderers consume.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/cms"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
	"go.uber.org/multierr"
)

// SEO is the optional search metadata of a page.
type SEO struct {
	MetaTitle       string         `json:"meta_title,omitempty"`
	MetaDescription string         `json:"meta_description,omitempty"`
	CanonicalURL    string         `json:"canonical_url,omitempty"`
	NoIndex         bool           `json:"no_index,omitempty"`
	OGImage         *catalog.Asset `json:"og_image,omitempty"`
}

// Page is a CMS page with its sections decoded in order.
type Page struct {
	UID      string
	Title    string
	URL      string
	SEO      SEO
	Sections []blocks.Section
}

// Bundle is everything needed to render one storefront page.
type Bundle struct {
	Page   *Page
	Header []catalog.NavItem
	Footer []catalog.NavItem
	Site   catalog.SiteSettings
}

// ProductQuery narrows a product listing.
type ProductQuery struct {
	Category string
	Featured bool
	Limit    int
	Variants []string
}

// Service exposes the storefront read operations.
type Service interface {
	GetPage(ctx context.Context, url string, variants []string) (*Page, error)
	GetPageBundle(ctx context.Context, url string, variants []string) (*Bundle, error)
	GetChrome(ctx context.Context) *Bundle
	GetBlock(ctx context.Context, ref blocks.Reference, variants []string) (blocks.Section, error)
	GetNavigation(ctx context.Context, location string) ([]catalog.NavItem, error)
	GetSiteSettings(ctx context.Context) (catalog.SiteSettings, error)
	GetProducts(ctx context.Context, q ProductQuery) ([]catalog.Product, error)
	GetAllProducts(ctx context.Context) ([]catalog.Product, error)
	GetProductBySlug(ctx context.Context, slug string, variants []string) (*catalog.Product, error)
	GetBlogPosts(ctx context.Context, limit int) ([]catalog.BlogPost, error)
	GetCollections(ctx context.Context) ([]catalog.Collection, error)
	GetLookbooks(ctx context.Context) ([]catalog.Lookbook, error)
}

type service struct {
	client   cms.Client
	logg     *logger.Logger
	fallback catalog.SiteSettings
}

// NewService builds the data service. fallback is served whenever site settings cannot be loaded.
func NewService(client cms.Client, logg *logger.Logger, fallback catalog.SiteSettings) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("cms client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(fallback.SiteName) == "" {
		fallback.SiteName = DefaultSiteName
	}
	return &service{client: client, logg: logg, fallback: fallback}, nil
}

// DefaultSiteName is used when neither the CMS nor configuration names the site.
const DefaultSiteName = "Demolux"

// NormalizeURL returns the canonical page url for a request path or slug.
func NormalizeURL(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

func (s *service) warn(ctx context.Context, msg string, err error, fields map[string]any) {
	all := pkgerrors.Dump(err).Fields()
	for k, v := range fields {
		all[k] = v
	}
	s.logg.Warn(s.logg.WithFields(ctx, all), msg)
}

// decodeEntries decodes each raw entry into T. Entries that fail to decode are
// dropped and their errors combined.
func decodeEntries[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	var errs error
	for i, entry := range raw {
		var v T
		if err := json.Unmarshal(entry, &v); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		out = append(out, v)
	}
	return out, errs
}
