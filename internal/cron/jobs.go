package cron

import (
	"context"
	"fmt"

	"github.com/demolux/storefront/pkg/logger"
)

type expiryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type cartPurgeJob struct {
	logg   *logger.Logger
	purger expiryPurger
}

// NewCartPurgeJob deletes stored carts whose TTL has passed.
func NewCartPurgeJob(logg *logger.Logger, purger expiryPurger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if purger == nil {
		return nil, fmt.Errorf("cart purger required")
	}
	return &cartPurgeJob{logg: logg, purger: purger}, nil
}

func (j *cartPurgeJob) Name() string { return "cart-purge" }

func (j *cartPurgeJob) Run(ctx context.Context) error {
	deleted, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired carts: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "cart.purge_complete")
	return nil
}

type cacheSweepJob struct {
	logg  *logger.Logger
	cache expiryPurger
}

// NewCacheSweepJob drops expired entries from the in-process CMS cache.
func NewCacheSweepJob(logg *logger.Logger, cache expiryPurger) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	return &cacheSweepJob{logg: logg, cache: cache}, nil
}

func (j *cacheSweepJob) Name() string { return "cms-cache-sweep" }

func (j *cacheSweepJob) Run(ctx context.Context) error {
	removed, err := j.cache.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("sweep cms cache: %w", err)
	}
	j.logg.Debug(j.logg.WithField(ctx, "entries_removed", removed), "cms.cache_sweep_complete")
	return nil
}

type indexRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

type searchRefreshJob struct {
	logg  *logger.Logger
	index indexRefresher
}

// NewSearchRefreshJob reloads the product search index from the catalog.
func NewSearchRefreshJob(logg *logger.Logger, index indexRefresher) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if index == nil {
		return nil, fmt.Errorf("search index required")
	}
	return &searchRefreshJob{logg: logg, index: index}, nil
}

func (j *searchRefreshJob) Name() string { return "search-refresh" }

func (j *searchRefreshJob) Run(ctx context.Context) error {
	n, err := j.index.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh search index: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "products", n), "search.refresh_complete")
	return nil
}
