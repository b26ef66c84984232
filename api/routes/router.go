package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/demolux/storefront/api/controllers"
	"github.com/demolux/storefront/api/middleware"
	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/content"
	"github.com/demolux/storefront/internal/personalize"
	"github.com/demolux/storefront/internal/render"
	"github.com/demolux/storefront/internal/search"
	"github.com/demolux/storefront/internal/ui"
	"github.com/demolux/storefront/pkg/config"
	"github.com/demolux/storefront/pkg/logger"
)

// RateCounter backs the write API rate limit; nil disables it.
type RateCounter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	checks map[string]controllers.Pinger,
	rateCounter RateCounter,
	gatherer prometheus.Gatherer,
	contentService content.Service,
	renderer *render.Renderer,
	searchIndex *search.Index,
	cartService cart.Service,
	personalizeService *personalize.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.BaseURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get(ui.ScriptPath, controllers.StorefrontScript())

	storefront := controllers.Storefront{
		Content:  contentService,
		Renderer: renderer,
		Carts:    cartService,
		BaseURL:  cfg.App.BaseURL,
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.CartSession(cfg.Cart.TTL, cfg.Cart.CookieSecure, logg),
			middleware.Variants(),
		)

		r.Get("/", controllers.StorefrontPage(storefront, logg))
		r.Get("/{slug}", controllers.StorefrontPage(storefront, logg))
		r.Get("/pages/*", controllers.StorefrontPage(storefront, logg))
		r.Get("/products", controllers.ProductListingPage(storefront, logg))
		r.Get("/products/{slug}", controllers.ProductDetailPage(storefront, logg))
		r.Get("/collections", controllers.CollectionsPage(storefront, logg))
		r.Get("/lookbooks", controllers.LookbooksPage(storefront, logg))

		r.Route("/api", func(r chi.Router) {
			if rateCounter != nil {
				policy := middleware.NewRateLimitPolicy("api", time.Minute, cfg.FeatureFlags.RateLimitPerMin)
				proxies, err := cfg.App.TrustedProxyPrefixes()
				if err != nil {
					logg.Error(context.Background(), "ignoring trusted proxies", err)
				}
				r.Use(middleware.RateLimit(policy.WithTrustedProxies(proxies), rateCounter, logg))
			}

			r.Get("/personalized-product", controllers.PersonalizedProduct(contentService, logg))
			r.Post("/personalized-product", controllers.PersonalizedProduct(contentService, logg))
			r.Get("/products", controllers.Products(contentService, logg))
			r.Get("/search", controllers.Search(searchIndex, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Put("/", controllers.CartLoad(cartService, contentService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, contentService, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Route("/personalize", func(r chi.Router) {
				r.Get("/segments", controllers.PersonalizeSegments(personalizeService, logg))
				r.Post("/variants", controllers.PersonalizeVariants(personalizeService, cfg.Cart.CookieSecure, logg))
				r.Post("/events", controllers.PersonalizeEvents(personalizeService, logg))
			})
		})
	})

	return r
}
