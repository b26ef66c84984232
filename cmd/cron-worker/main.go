package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/demolux/storefront/internal/cart"
	"github.com/demolux/storefront/internal/cron"
	"github.com/demolux/storefront/pkg/config"
	"github.com/demolux/storefront/pkg/db"
	"github.com/demolux/storefront/pkg/instance"
	"github.com/demolux/storefront/pkg/logger"
	"github.com/demolux/storefront/pkg/metrics"
	"github.com/demolux/storefront/pkg/migrate"
	"github.com/demolux/storefront/pkg/redis"
)

const (
	serviceName  = "cron-worker"
	jobsLockName = "storefront-jobs"
)

// cron-worker purges expired database carts out of process, for deployments
// that run the api with DEMOLUX_JOBS_ENABLED=false.
func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

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
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	if !strings.EqualFold(cfg.Cart.StorageDriver, config.CartStorageDatabase) {
		requireResource(ctx, logg, "cart storage", fmt.Errorf("%s must be %q", config.EnvCartStorage, config.CartStorageDatabase))
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()
	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		lock, err = cron.NewRedisLock(redisClient, jobsLockName, cfg.Jobs.LockTTL)
		requireResource(ctx, logg, "jobs lock", err)
	}

	purge, err := cron.NewCartPurgeJob(logg, cart.NewDBStorage(dbClient.DB(), cfg.Cart.TTL))
	requireResource(ctx, logg, "cart purge job", err)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(purge),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Jobs.Interval,
	})
	requireResource(ctx, logg, "jobs service", err)

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
