package content

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/demolux/storefront/internal/blocks"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/cms"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureService(t *testing.T) Service {
	t.Helper()
	client, err := cms.NewFixtureClient()
	require.NoError(t, err)
	svc, err := NewService(client, logger.Nop(), catalog.SiteSettings{SiteName: "Fallback"})
	require.NoError(t, err)
	return svc
}

func blockTypes(sections []blocks.Section) []blocks.Type {
	out := make([]blocks.Type, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.BlockType())
	}
	return out
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, logger.Nop(), catalog.SiteSettings{})
	require.Error(t, err)
	client, err := cms.NewFixtureClient()
	require.NoError(t, err)
	_, err = NewService(client, nil, catalog.SiteSettings{})
	require.Error(t, err)
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"about":    "/about",
		"/about/":  "/about",
		" a/b/c/ ": "/a/b/c",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeURL(in), "input %q", in)
	}
}

func TestGetPageDecodesSectionsInOrder(t *testing.T) {
	svc := newFixtureService(t)

	page, err := svc.GetPage(context.Background(), "/", nil)
	require.NoError(t, err)
	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, "Demolux", page.SEO.MetaTitle)
	assert.Equal(t, []blocks.Type{
		blocks.TypeHero,
		blocks.TypeFeaturedContentGrid,
		blocks.TypeValuesGrid,
		blocks.TypeStatistics,
		blocks.TypeTestimonials,
		blocks.TypeCampaignCTA,
	}, blockTypes(page.Sections))

	stats, ok := page.Sections[3].(*blocks.StatisticsBlock)
	require.True(t, ok, "referenced statistics block should be resolved")
	assert.Len(t, stats.Metrics, 4)
	assert.True(t, stats.Animated)

	grid, ok := page.Sections[1].(*blocks.FeaturedContentGridBlock)
	require.True(t, ok)
	assert.Len(t, grid.Products(), 4, "query grid should be filled up to its limit")
}

func TestGetPageKeepsUnknownBlocks(t *testing.T) {
	svc := newFixtureService(t)

	page, err := svc.GetPage(context.Background(), "about/", nil)
	require.NoError(t, err)
	require.Len(t, page.Sections, 6)
	unknown, ok := page.Sections[2].(*blocks.UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "video_block", unknown.RawType)
	assert.Equal(t, "https://demolux.example/about", page.SEO.CanonicalURL)
}

func TestGetPageMissing(t *testing.T) {
	svc := newFixtureService(t)
	_, err := svc.GetPage(context.Background(), "/nope", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestGetPageBundle(t *testing.T) {
	svc := newFixtureService(t)

	bundle, err := svc.GetPageBundle(context.Background(), "/", nil)
	require.NoError(t, err)
	require.NotNil(t, bundle.Page)
	assert.Equal(t, "Demolux", bundle.Site.SiteName)
	assert.Len(t, bundle.Header, 3)
	assert.Len(t, bundle.Header[0].Children, 3)
	assert.Len(t, bundle.Footer, 2)
}

func TestGetChrome(t *testing.T) {
	svc := newFixtureService(t)

	chrome := svc.GetChrome(context.Background())
	assert.Nil(t, chrome.Page)
	assert.Equal(t, "Demolux", chrome.Site.SiteName)
	assert.Len(t, chrome.Header, 3)
	assert.Len(t, chrome.Footer, 2)
}

func TestGetPageBundleDegradesToFallbacks(t *testing.T) {
	fixtures, err := cms.NewFixtureClient()
	require.NoError(t, err)
	client := &failingClient{next: fixtures, fail: map[string]bool{
		cms.ContentTypeNavigation:   true,
		cms.ContentTypeSiteSettings: true,
	}}
	svc, err := NewService(client, logger.Nop(), catalog.SiteSettings{SiteName: "Fallback"})
	require.NoError(t, err)

	bundle, err := svc.GetPageBundle(context.Background(), "/about", nil)
	require.NoError(t, err)
	assert.NotNil(t, bundle.Page)
	assert.Empty(t, bundle.Header)
	assert.Empty(t, bundle.Footer)
	assert.Equal(t, "Fallback", bundle.Site.SiteName)

	client.fail[cms.ContentTypePage] = true
	bundle, err = svc.GetPageBundle(context.Background(), "/about", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.NotNil(t, bundle)
	assert.Nil(t, bundle.Page)
	assert.Equal(t, "Fallback", bundle.Site.SiteName)
}

func TestUnresolvedReferenceBecomesUnknown(t *testing.T) {
	fixtures, err := cms.NewFixtureClient()
	require.NoError(t, err)
	client := &failingClient{next: fixtures, fail: map[string]bool{"statistics_block": true}}
	svc, err := NewService(client, logger.Nop(), catalog.SiteSettings{})
	require.NoError(t, err)

	page, err := svc.GetPage(context.Background(), "/", nil)
	require.NoError(t, err)
	unknown, ok := page.Sections[3].(*blocks.UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "statistics_block", unknown.RawType)
}

func TestProductsAndVariants(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	all, err := svc.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	bags, err := svc.GetProducts(ctx, ProductQuery{Category: "bags"})
	require.NoError(t, err)
	assert.Len(t, bags, 2)

	featured, err := svc.GetProducts(ctx, ProductQuery{Featured: true, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	base, err := svc.GetProductBySlug(ctx, "atelier-leather-tote", nil)
	require.NoError(t, err)
	assert.Equal(t, "289", base.Price.String())
	assert.Nil(t, base.Variant)

	personalized, err := svc.GetProductBySlug(ctx, "/atelier-leather-tote/", []string{"cs_personalize_0_1"})
	require.NoError(t, err)
	assert.Equal(t, "Atelier Leather Tote, Members Edition", personalized.Title)
	assert.Equal(t, "259", personalized.Price.String())
	require.NotNil(t, personalized.Variant)
	assert.Equal(t, "cs_personalize_0_1", personalized.Variant.UID)

	_, err = svc.GetProductBySlug(ctx, "missing", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.GetProductBySlug(ctx, "  ", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetAllProductsPages(t *testing.T) {
	client := &pagingClient{total: 230}
	svc, err := NewService(client, logger.Nop(), catalog.SiteSettings{})
	require.NoError(t, err)

	products, err := svc.GetAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 230)
	assert.Equal(t, []int{0, 100, 200}, client.skips)
}

func TestEditorialCollections(t *testing.T) {
	svc := newFixtureService(t)
	ctx := context.Background()

	posts, err := svc.GetBlogPosts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	collections, err := svc.GetCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Len(t, collections[0].Products, 2)

	lookbooks, err := svc.GetLookbooks(ctx)
	require.NoError(t, err)
	require.Len(t, lookbooks, 1)
	assert.Equal(t, "AW25", lookbooks[0].Season)
}

type failingClient struct {
	next cms.Client
	fail map[string]bool
}

func (f *failingClient) Entries(ctx context.Context, q cms.Query) ([]json.RawMessage, error) {
	if f.fail[q.ContentType] {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("boom"), "contentstack request failed")
	}
	return f.next.Entries(ctx, q)
}

func (f *failingClient) Entry(ctx context.Context, q cms.Query, uid string) (json.RawMessage, error) {
	if f.fail[q.ContentType] {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("boom"), "contentstack request failed")
	}
	return f.next.Entry(ctx, q, uid)
}

type pagingClient struct {
	total int
	skips []int
}

func (p *pagingClient) Entries(_ context.Context, q cms.Query) ([]json.RawMessage, error) {
	p.skips = append(p.skips, q.Skip)
	var out []json.RawMessage
	for i := q.Skip; i < p.total && len(out) < q.Limit; i++ {
		out = append(out, json.RawMessage(`{"uid":"p","title":"P","price":1}`))
	}
	return out, nil
}

func (p *pagingClient) Entry(context.Context, cms.Query, string) (json.RawMessage, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "entry not found")
}
