package migrate

import (
	"context"
	"fmt"

	"github.com/leviwiederhold/forman/pkg/config"
	"github.com/leviwiederhold/forman/pkg/db"
	"github.com/leviwiederhold/forman/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot. Only dev environments with
// FORMAN_AUTO_MIGRATE set do this; everything else runs cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	migrator, err := New(sqlDB, client.Driver(), nil)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "driver", client.Driver())
	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", applied), "dev migrations applied")
	return nil
}
