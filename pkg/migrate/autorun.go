package migrate

import (
	"context"
	"fmt"

	"github.com/denimhub/denimhub-backend/pkg/config"
	"github.com/denimhub/denimhub-backend/pkg/db"
	"github.com/denimhub/denimhub-backend/pkg/db/models"
	"github.com/denimhub/denimhub-backend/pkg/logger"
)

// MaybeRun brings the schema up to date on boot when DENIMHUB_AUTO_MIGRATE is set.
// MySQL runs the embedded goose migrations; other drivers sync from the gorm models.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.AutoMigrate {
		return nil
	}

	driver := cfg.DB.NormalizedDriver()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "db_driver": driver})

	if driver != config.DriverMySQL {
		logg.Info(ctx, "syncing schema from models (auto-migrate)")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating models: %w", err)
		}
		logg.Info(ctx, "schema sync completed")
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	logg.Info(ctx, "running goose migrations (auto-migrate)")
	if err := Run(ctx, sqlDB, "mysql", "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
