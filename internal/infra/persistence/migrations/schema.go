package migrations

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"tasktracker/config"
	"tasktracker/internal/errors"
	"tasktracker/internal/infra/persistence/model"
)

// AutoMigrate creates or updates the tables from the GORM models.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.UserModel{}, &model.TaskModel{}); err != nil {
		return errors.Wrap(err, "auto migrate models")
	}

	return nil
}

// Apply brings the schema of the configured store up to date.
func Apply(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *slog.Logger) error {
	if cfg.Database.Driver == config.DriverSQLite {
		logger.Info("Applying SQLite schema from models", slog.String("path", cfg.Database.SQLitePath))

		return AutoMigrate(ctx, db)
	}

	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			logger.Warn("Failed to close migrator", slog.Any("error", closeErr))
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info("Database migrations applied", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
