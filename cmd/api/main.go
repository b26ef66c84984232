package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/demolux/storefront/api/controllers"
	"github.com/demolux/storefront/api/routes"
	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/catalog"
	"github.com/demolux/storefront/internal/cms"
	"github.com/demolux/storefront/internal/content"
	"github.com/demolux/storefront/internal/cron"
	"github.com/demolux/storefront/internal/personalize"
	"github.com/demolux/storefront/internal/render"
	"github.com/demolux/storefront/internal/search"
	"github.com/demolux/storefront/pkg/config"
	"github.com/demolux/storefront/pkg/db"
	"github.com/demolux/storefront/pkg/instance"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/demolux/storefront/pkg/metrics"
	"github.com/demolux/storefront/pkg/migrate"
	"github.com/demolux/storefront/pkg/pubsub"
	"github.com/demolux/storefront/pkg/redis"
)

const (
	serviceName     = "storefront"
	jobsLockName    = "storefront-jobs"
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var closers []io.Closer
	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i].Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	checks := map[string]controllers.Pinger{"redis": nil, "database": nil, "pubsub": nil}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		closers = append(closers, redisClient)
		checks["redis"] = redisClient
	}

	var dbClient *db.Client
	if strings.EqualFold(cfg.Cart.StorageDriver, config.CartStorageDatabase) {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		requireResource(ctx, logg, "database", err)
		closers = append(closers, dbClient)
		checks["database"] = dbClient
		requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))
	}

	cmsMetrics := metrics.NewCMSMetrics(reg)
	cmsClient, err := newCMSClient(ctx, cfg, cmsMetrics, logg)
	requireResource(ctx, logg, "contentstack", err)
	cmsCache, err := newCMSCache(cfg, redisClient)
	requireResource(ctx, logg, "cms cache", err)
	cachedClient := cms.NewCachedClient(cmsClient, cmsCache, cfg.Cache.EntryTTL, cmsMetrics, logg)

	contentService, err := content.NewService(cachedClient, logg, catalog.SiteSettings{SiteName: cfg.App.SiteName})
	requireResource(ctx, logg, "content service", err)
	searchIndex := search.NewIndex(contentService.GetAllProducts)

	cartStorage, err := newCartStorage(cfg, redisClient, dbClient)
	requireResource(ctx, logg, "cart storage", err)
	cartService, err := cart.NewService(cartStorage, metrics.NewCartMetrics(reg), logg)
	requireResource(ctx, logg, "cart service", err)

	var sessionCache personalize.SessionCache = personalize.NewMemorySessionCache()
	if redisClient != nil {
		sessionCache = personalize.NewRedisSessionCache(redisClient)
	}
	sdk, err := personalize.NewSDK(cfg.Personalize)
	requireResource(ctx, logg, "personalize sdk", err)

	var tracker personalize.Tracker
	if cfg.PubSub.Enabled() {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		closers = append(closers, pubsubClient)
		checks["pubsub"] = pubsubClient
		tracker, err = personalize.NewPubSubTracker(pubsubClient.EventsPublisher())
		requireResource(ctx, logg, "personalize tracker", err)
	}
	personalizeService, err := personalize.NewService(
		personalize.NewMockCDP(sessionCache, cfg.Personalize.SegmentTTL),
		sdk,
		tracker,
		logg,
	)
	requireResource(ctx, logg, "personalize service", err)

	policy := render.SkipUnknown
	if cfg.FeatureFlags.CommentUnknown {
		policy = render.CommentUnknown
	}
	renderer := render.New(
		render.WithUnknownPolicy(policy),
		render.WithMetrics(metrics.NewBlockMetrics(reg)),
		render.WithLogger(logg),
	)

	var rateCounter routes.RateCounter
	if redisClient != nil {
		rateCounter = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, checks, rateCounter, reg,
			contentService, renderer, searchIndex, cartService, personalizeService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logg.Info(ctx, "api server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Jobs.Enabled {
		jobs, err := newJobService(cfg, logg, reg, redisClient, cmsCache, cartStorage, searchIndex)
		requireResource(ctx, logg, "jobs", err)
		group.Go(func() error {
			if err := jobs.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("jobs: %w", err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func newCMSClient(ctx context.Context, cfg *config.Config, m *metrics.CMSMetrics, logg *logger.Logger) (cms.Client, error) {
	if !cfg.Contentstack.Configured() {
		logg.Warn(ctx, "contentstack not configured, serving bundled fixtures")
		fixtures, err := cms.NewFixtureClient()
		if err != nil {
			return nil, err
		}
		return fixtures, nil
	}
	delivery, err := cms.NewDeliveryClient(cfg.Contentstack, cms.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

func newCMSCache(cfg *config.Config, redisClient *redis.Client) (cms.Cache, error) {
	switch strings.ToLower(cfg.Cache.Driver) {
	case "", config.CacheDriverMemory:
		return cms.NewMemoryCache(cfg.Cache.MaxEntries), nil
	case config.CacheDriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("cache driver %q requires %s", config.CacheDriverRedis, config.EnvRedisURL)
		}
		return cms.NewRedisCache(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

func newCartStorage(cfg *config.Config, redisClient *redis.Client, dbClient *db.Client) (cart.Storage, error) {
	switch strings.ToLower(cfg.Cart.StorageDriver) {
	case "", config.CartStorageMemory:
		return cart.NewMemoryStorage(cfg.Cart.TTL), nil
	case config.CartStorageRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("cart storage %q requires %s", config.CartStorageRedis, config.EnvRedisURL)
		}
		return cart.NewRedisStorage(redisClient, cfg.Cart.TTL), nil
	case config.CartStorageDatabase:
		return cart.NewDBStorage(dbClient.DB(), cfg.Cart.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cart storage %q", cfg.Cart.StorageDriver)
	}
}

func newJobService(
	cfg *config.Config,
	logg *logger.Logger,
	reg prometheus.Registerer,
	redisClient *redis.Client,
	cmsCache cms.Cache,
	cartStorage cart.Storage,
	searchIndex *search.Index,
) (*cron.Service, error) {
	registry := cron.NewRegistry()
	refresh, err := cron.NewSearchRefreshJob(logg, searchIndex)
	if err != nil {
		return nil, err
	}
	registry.Register(refresh)
	if memoryCache, ok := cmsCache.(*cms.MemoryCache); ok {
		sweep, err := cron.NewCacheSweepJob(logg, memoryCache)
		if err != nil {
			return nil, err
		}
		registry.Register(sweep)
	}
	// Redis expires carts itself; memory and database storage need purging.
	if purger, ok := cartStorage.(interface {
		PurgeExpired(context.Context) (int64, error)
	}); ok {
		purge, err := cron.NewCartPurgeJob(logg, purger)
		if err != nil {
			return nil, err
		}
		registry.Register(purge)
	}

	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, jobsLockName, cfg.Jobs.LockTTL)
		if err != nil {
			return nil, err
		}
		lock = redisLock
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(reg),
		Interval: cfg.Jobs.Interval,
	})
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
