// Package migrations manages the database schema.
// PostgreSQL uses versioned SQL files applied by golang-migrate; the SQLite
// development store is created from the GORM models.
package migrations

import (
	"embed"
	"net"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	// Register pgx/v5 database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"tasktracker/config"
	"tasktracker/internal/errors"
)

//go:embed sql/postgres/*.sql
var migrationsFS embed.FS

// migrateIface abstracts golang-migrate so the Migrator can be tested without a database.
type migrateIface interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// Migrator wraps golang-migrate for database schema management.
type Migrator struct {
	m migrateIface
}

// NewMigrator creates a Migrator for the PostgreSQL database configured in the postgres section.
func NewMigrator(cfg *config.Config) (*Migrator, error) {
	databaseURL, err := DatabaseURL(cfg)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrationsFS, "sql/postgres")
	if err != nil {
		return nil, errors.Wrap(err, "create migration source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		_ = source.Close()

		return nil, errors.Wrap(err, "initialize migrator")
	}

	return &Migrator{m: m}, nil
}

// DatabaseURL builds the golang-migrate pgx5:// URL from the postgres section,
// so migrations always target the primary the repositories connect to.
func DatabaseURL(cfg *config.Config) (string, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return "", errors.Errorf("versioned migrations are only available for postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Postgres == nil {
		return "", errors.New("postgres section is required to migrate postgres")
	}

	pg := cfg.Postgres
	if pg.Master.Host == "" || pg.Database == "" {
		return "", errors.New("postgres.master.host and postgres.database are required to migrate postgres")
	}

	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	if pg.SearchPath != "" {
		query.Set("search_path", pg.SearchPath)
	}

	host := pg.Master.Host
	if pg.Master.Port != "" {
		host = net.JoinHostPort(pg.Master.Host, pg.Master.Port)
	}

	databaseURL := url.URL{
		Scheme:   "pgx5",
		Host:     host,
		Path:     "/" + pg.Database,
		RawQuery: query.Encode(),
	}
	if pg.Master.UserName != "" {
		databaseURL.User = url.UserPassword(pg.Master.UserName, pg.Master.Password)
	}

	return databaseURL.String(), nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}

	return nil
}

// Down rolls back every migration, dropping all tables and data.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate down")
	}

	return nil
}

// Version returns the current migration version and dirty state.
// Returns version 0 with dirty=false if no migrations have been applied.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "migrate version")
	}

	return version, dirty, nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil && dbErr != nil {
		return errors.Errorf("close migrator: source: %v; database: %v", srcErr, dbErr)
	}
	if srcErr != nil {
		return errors.Wrap(srcErr, "close migration source")
	}
	if dbErr != nil {
		return errors.Wrap(dbErr, "close migration database")
	}

	return nil
}
