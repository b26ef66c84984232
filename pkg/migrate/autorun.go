package migrate

import (
	"context"
	"fmt"

	"github.com/demolux/storefront/pkg/config"
	"github.com/demolux/storefront/pkg/db"
	"github.com/demolux/storefront/pkg/logger"
)

// MaybeRunDev applies the embedded cart migrations on boot when running in dev
// with DEMOLUX_AUTO_MIGRATE set. Other environments run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil || !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if err := Validate(); err != nil {
		return fmt.Errorf("validating migrations: %w", err)
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Dialect()})
	logg.Info(ctx, "migrate.dev_autorun_start")

	if err := Run(ctx, sqlDB, client.Dialect(), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.dev_autorun_complete")
	return nil
}
