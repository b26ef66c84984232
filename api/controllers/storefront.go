package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"github.com/demolux/storefront/api/middleware"
	"github.com/demolux/storefront/api/responses"
	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/content"
	"github.com/demolux/storefront/internal/personalize"
	"github.com/demolux/storefront/internal/render"
	"github.com/demolux/storefront/internal/richtext"
	pkgerrors "github.com/demolux/storefront/pkg/errors"
	"github.com/demolux/storefront/pkg/logger"
)

const metaDescriptionLimit = 160

// Storefront groups what the HTML pages need.
type Storefront struct {
	Content  content.Service
	Renderer *render.Renderer
	Carts    cart.Service
	BaseURL  string
}

func (s Storefront) ready() bool {
	return s.Content != nil && s.Renderer != nil
}

// StorefrontPage renders the CMS page addressed by the request path. "/" and
// "/{slug}" map to themselves; "/pages/*" maps to the remainder of the path.
func StorefrontPage(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !sf.ready() {
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(render.Shell{}, render.NotConfigured()))
			return
		}

		url := content.NormalizeURL(pagePath(r))
		if logg != nil {
			ctx = logg.WithPageSlug(ctx, url)
		}
		variants := personalize.VariantsFromContext(ctx)

		bundle, err := sf.Content.GetPageBundle(ctx, url, variants)
		shell := sf.shell(ctx, bundle, logg)
		switch {
		case err == nil:
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound) && url == "/":
			responses.WriteHTML(w, http.StatusOK, render.Document(shell, render.NotConfigured()))
			return
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			shell.Meta = render.Meta{Title: "Page not found", NoIndex: true}
			responses.WriteHTML(w, http.StatusNotFound, render.Document(shell, render.NotFound()))
			return
		default:
			if logg != nil {
				logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "storefront.page_unavailable", err)
			}
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(shell, render.NotConfigured()))
			return
		}

		page := bundle.Page
		shell.Meta = sf.pageMeta(page)
		responses.WriteHTML(w, http.StatusOK, render.Document(shell, sf.Renderer.Sections(ctx, page.Sections)...))
	}
}

// ProductListingPage renders the catalog, optionally filtered by ?category=.
func ProductListingPage(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !sf.ready() {
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(render.Shell{}, render.NotConfigured()))
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))
		products, err := sf.Content.GetProducts(ctx, content.ProductQuery{
			Category: category,
			Variants: personalize.VariantsFromContext(ctx),
		})
		shell := sf.shell(ctx, sf.Content.GetChrome(ctx), logg)
		if err != nil {
			if logg != nil {
				logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "storefront.products_unavailable", err)
			}
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(shell, render.NotConfigured()))
			return
		}

		title := "Shop"
		if category != "" {
			title = category
		}
		shell.Meta = render.Meta{Title: title, Canonical: sf.canonical("/products")}
		responses.WriteHTML(w, http.StatusOK, render.Document(shell, render.ProductListing(products, category)))
	}
}

// ProductDetailPage renders /products/{slug} with the visitor's variants applied.
func ProductDetailPage(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !sf.ready() {
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(render.Shell{}, render.NotConfigured()))
			return
		}

		slug := chi.URLParam(r, "slug")
		product, err := sf.Content.GetProductBySlug(ctx, slug, personalize.VariantsFromContext(ctx))
		shell := sf.shell(ctx, sf.Content.GetChrome(ctx), logg)
		switch {
		case err == nil:
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound), pkgerrors.IsCode(err, pkgerrors.CodeValidation):
			shell.Meta = render.Meta{Title: "Page not found", NoIndex: true}
			responses.WriteHTML(w, http.StatusNotFound, render.Document(shell, render.NotFound()))
			return
		default:
			if logg != nil {
				logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "storefront.product_unavailable", err)
			}
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(shell, render.NotConfigured()))
			return
		}

		shell.Meta = render.Meta{
			Title:       product.Title,
			Description: truncate(richtext.Plain(product.Description), metaDescriptionLimit),
			Canonical:   sf.canonical(product.Href()),
			OGImage:     product.FeaturedImage,
		}
		responses.WriteHTML(w, http.StatusOK, render.Document(shell, render.ProductDetail(*product)))
	}
}

// CollectionsPage lists every merchandising collection.
func CollectionsPage(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return listingPage(sf, logg, "/collections", "Collections", func(ctx context.Context) (g.Node, error) {
		collections, err := sf.Content.GetCollections(ctx)
		if err != nil {
			return nil, err
		}
		return render.CollectionListing(collections), nil
	})
}

// LookbooksPage lists every editorial lookbook.
func LookbooksPage(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return listingPage(sf, logg, "/lookbooks", "Lookbooks", func(ctx context.Context) (g.Node, error) {
		lookbooks, err := sf.Content.GetLookbooks(ctx)
		if err != nil {
			return nil, err
		}
		return render.LookbookListing(lookbooks), nil
	})
}

func listingPage(sf Storefront, logg *logger.Logger, path, title string, load func(context.Context) (g.Node, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !sf.ready() {
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(render.Shell{}, render.NotConfigured()))
			return
		}

		body, err := load(ctx)
		shell := sf.shell(ctx, sf.Content.GetChrome(ctx), logg)
		if err != nil {
			if logg != nil {
				logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "storefront.listing_unavailable", err)
			}
			responses.WriteHTML(w, http.StatusServiceUnavailable, render.Document(shell, render.NotConfigured()))
			return
		}
		shell.Meta = render.Meta{Title: title, Canonical: sf.canonical(path)}
		responses.WriteHTML(w, http.StatusOK, render.Document(shell, body))
	}
}

func pagePath(r *http.Request) string {
	if rest := chi.URLParam(r, "*"); rest != "" {
		return rest
	}
	if slug := chi.URLParam(r, "slug"); slug != "" {
		return slug
	}
	return r.URL.Path
}

func (s Storefront) shell(ctx context.Context, bundle *content.Bundle, logg *logger.Logger) render.Shell {
	shell := render.Shell{CartCount: s.cartCount(ctx, logg)}
	if bundle == nil {
		shell.Site = catalog.SiteSettings{SiteName: content.DefaultSiteName}
		return shell
	}
	shell.Site = bundle.Site
	shell.Header = bundle.Header
	shell.Footer = bundle.Footer
	return shell
}

func (s Storefront) cartCount(ctx context.Context, logg *logger.Logger) int {
	sessionID := middleware.CartSessionFromContext(ctx)
	if s.Carts == nil || sessionID == "" {
		return 0
	}
	store, err := s.Carts.Store(sessionID)
	if err != nil {
		return 0
	}
	state, err := store.State(ctx)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "storefront.cart_count_failed")
		}
		return 0
	}
	return state.ItemCount
}

func (s Storefront) pageMeta(page *content.Page) render.Meta {
	meta := render.Meta{
		Title:       page.SEO.MetaTitle,
		Description: page.SEO.MetaDescription,
		Canonical:   page.SEO.CanonicalURL,
		NoIndex:     page.SEO.NoIndex,
		OGImage:     page.SEO.OGImage,
	}
	if meta.Title == "" {
		meta.Title = page.Title
	}
	if meta.Canonical == "" {
		meta.Canonical = s.canonical(page.URL)
	}
	return meta
}

func (s Storefront) canonical(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		return ""
	}
	return base + content.NormalizeURL(path)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
