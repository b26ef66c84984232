package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/cms"
	"github.com/demolux/storefront/pkg/enums"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Reference fields expanded by the delivery API when fetching pages.
var pageIncludes = []string{
	"sections.featured_content_grid_block.manual_products",
	"sections.featured_content_grid_block.manual_blog_posts",
}

type rawPage struct {
	UID      string            `json:"uid"`
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	SEO      *SEO              `json:"seo"`
	Sections []json.RawMessage `json:"sections"`
}

// GetPage fetches the page published at url. A missing page is a NOT_FOUND error.
func (s *service) GetPage(ctx context.Context, url string, variants []string) (*Page, error) {
	url = NormalizeURL(url)
	ctx = s.logg.WithPageSlug(ctx, url)

	entries, err := s.client.Entries(ctx, cms.Query{
		ContentType: cms.ContentTypePage,
		Where:       map[string]any{"url": url},
		Include:     pageIncludes,
		Limit:       1,
		Variants:    variants,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
	}

	var raw rawPage
	if err := json.Unmarshal(entries[0], &raw); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode page entry")
	}

	page := &Page{UID: raw.UID, Title: raw.Title, URL: raw.URL}
	if raw.SEO != nil {
		page.SEO = *raw.SEO
	}
	page.Sections = s.sections(ctx, raw.Sections, variants)
	return page, nil
}

// GetPageBundle loads the page, both menus and the site settings concurrently.
// Only the page error is returned; menus and settings degrade to empty values and
// the fallback settings.
func (s *service) GetPageBundle(ctx context.Context, url string, variants []string) (*Bundle, error) {
	bundle := &Bundle{Site: s.fallback}
	var pageErr error

	var grp errgroup.Group
	grp.Go(func() error {
		bundle.Page, pageErr = s.GetPage(ctx, url, variants)
		return nil
	})
	s.loadChrome(ctx, &grp, bundle)
	_ = grp.Wait()

	if pageErr != nil {
		return bundle, pageErr
	}
	return bundle, nil
}

// GetChrome loads the menus and site settings shared by pages that do not come
// from a page entry. Failures degrade the same way as in GetPageBundle.
func (s *service) GetChrome(ctx context.Context) *Bundle {
	bundle := &Bundle{Site: s.fallback}
	var grp errgroup.Group
	s.loadChrome(ctx, &grp, bundle)
	_ = grp.Wait()
	return bundle
}

func (s *service) loadChrome(ctx context.Context, grp *errgroup.Group, bundle *Bundle) {
	grp.Go(func() error {
		items, err := s.GetNavigation(ctx, LocationHeader)
		if err != nil {
			s.warn(ctx, "content.navigation_failed", err, map[string]any{"location": LocationHeader})
		}
		bundle.Header = items
		return nil
	})
	grp.Go(func() error {
		items, err := s.GetNavigation(ctx, LocationFooter)
		if err != nil {
			s.warn(ctx, "content.navigation_failed", err, map[string]any{"location": LocationFooter})
		}
		bundle.Footer = items
		return nil
	})
	grp.Go(func() error {
		site, err := s.GetSiteSettings(ctx)
		if err != nil {
			s.warn(ctx, "content.site_settings_failed", err, nil)
			return nil
		}
		bundle.Site = site
		return nil
	})
}

// GetBlock fetches a block stored as its own entry.
func (s *service) GetBlock(ctx context.Context, ref blocks.Reference, variants []string) (blocks.Section, error) {
	raw, err := s.client.Entry(ctx, cms.Query{ContentType: ref.ContentType, Variants: variants}, ref.UID)
	if err != nil {
		return nil, err
	}
	// Standalone entries do not always carry their type, so wrap them in the
	// modular shape keyed by content type.
	wrapped, err := json.Marshal(map[string]json.RawMessage{ref.ContentType: raw})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "wrap block entry")
	}
	section, err := blocks.Decode(wrapped)
	if err != nil {
		return section, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode block entry")
	}
	return section, nil
}

// sections decodes raw sections in order, resolving entry references and filling
// query-sourced grids. Failures degrade the affected section to UnknownBlock.
func (s *service) sections(ctx context.Context, raw []json.RawMessage, variants []string) []blocks.Section {
	out := make([]blocks.Section, len(raw))
	inline := make([]int, 0, len(raw))

	var grp errgroup.Group
	for i, item := range raw {
		ref, ok := blocks.AsReference(item)
		if !ok {
			inline = append(inline, i)
			continue
		}
		grp.Go(func() error {
			section, err := s.GetBlock(ctx, ref, variants)
			if err != nil {
				s.warn(ctx, "content.block_reference_failed", err, map[string]any{
					"section_index": i,
					"block_uid":     ref.UID,
					"block_type":    ref.ContentType,
				})
				section = &blocks.UnknownBlock{RawType: ref.ContentType, Raw: item}
			}
			out[i] = section
			return nil
		})
	}

	inlineRaw := make([]json.RawMessage, len(inline))
	for j, i := range inline {
		inlineRaw[j] = raw[i]
	}
	decoded, err := blocks.DecodeList(inlineRaw)
	if err != nil {
		s.warn(ctx, "content.section_decode_failed", err, nil)
	}
	for j, i := range inline {
		out[i] = decoded[j]
	}
	_ = grp.Wait()

	var grids errgroup.Group
	for _, section := range out {
		if grid, ok := section.(*blocks.FeaturedContentGridBlock); ok {
			grids.Go(func() error {
				s.fillGrid(ctx, grid, variants)
				return nil
			})
		}
	}
	_ = grids.Wait()
	return out
}

const defaultGridLimit = 6

// fillGrid loads the items of a query-sourced featured grid.
func (s *service) fillGrid(ctx context.Context, grid *blocks.FeaturedContentGridBlock, variants []string) {
	if grid.ContentSource.OrDefault() != enums.ContentSourceQuery {
		return
	}
	limit := grid.QueryLimit
	if limit <= 0 {
		limit = defaultGridLimit
	}

	var err error
	switch grid.ContentType.OrDefault() {
	case enums.GridContentTypeBlogPosts:
		grid.QueryBlogPosts, err = s.GetBlogPosts(ctx, limit)
	default:
		grid.QueryProducts, err = s.GetProducts(ctx, ProductQuery{
			Category: grid.QueryCategory,
			Limit:    limit,
			Variants: variants,
		})
	}
	if err != nil {
		s.warn(ctx, "content.grid_query_failed", err, map[string]any{"content_type": grid.ContentType.String()})
	}
}

// Navigation locations.
const (
	LocationHeader = "header"
	LocationFooter = "footer"
)

// GetNavigation returns the menu items published for location.
func (s *service) GetNavigation(ctx context.Context, location string) ([]catalog.NavItem, error) {
	entries, err := s.client.Entries(ctx, cms.Query{
		ContentType: cms.ContentTypeNavigation,
		Where:       map[string]any{"location": location},
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	menus, err := decodeEntries[catalog.Navigation](entries)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s navigation", location))
	}
	if len(menus) == 0 {
		return nil, nil
	}
	return menus[0].Items, nil
}

// GetSiteSettings returns the published site settings, or the fallback when none exist.
func (s *service) GetSiteSettings(ctx context.Context) (catalog.SiteSettings, error) {
	entries, err := s.client.Entries(ctx, cms.Query{ContentType: cms.ContentTypeSiteSettings, Limit: 1})
	if err != nil {
		return s.fallback, err
	}
	settings, err := decodeEntries[catalog.SiteSettings](entries)
	if err != nil {
		return s.fallback, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode site settings")
	}
	if len(settings) == 0 {
		return s.fallback, nil
	}
	site := settings[0]
	if site.SiteName == "" {
		site.SiteName = s.fallback.SiteName
	}
	return site, nil
}
