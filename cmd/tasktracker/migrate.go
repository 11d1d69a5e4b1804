package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"tasktracker/config"
	"tasktracker/internal/errors"
	logs "tasktracker/internal/infra/log"
	"tasktracker/internal/infra/persistence/migrations"
	"tasktracker/internal/infra/persistence/sqlstore"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply all pending migrations. PostgreSQL uses the versioned SQL
migrations against postgres.master; SQLite creates the tables from the models.`,
		RunE: runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every PostgreSQL migration",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current PostgreSQL schema version",
		RunE:  runMigrateVersion,
	})

	return cmd
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := sqlstore.Open(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := migrations.Apply(cmd.Context(), cfg, db, logger); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")

	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil {
		return err
	}

	cmd.Println("Migrations rolled back")

	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	cmd.Printf("version: %d dirty: %t\n", version, dirty)

	return nil
}

func newMigrator() (*migrations.Migrator, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return migrations.NewMigrator(cfg)
}
