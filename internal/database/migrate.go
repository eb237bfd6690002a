package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	appconfig "github.com/GTDGit/ewaste/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the products schema up to date using db, which stays open.
// Existing tables created outside of migrate are left untouched.
func Migrate(db *sqlx.DB, driver string) error {
	m, err := newMigrate(db, driver)
	if err != nil {
		return err
	}
	// m.Close is not called: it would close db.
	return up(m)
}

// MigrateConfig applies migrations over a connection of its own and closes it
// afterwards, releasing the connection the migration driver pins.
func MigrateConfig(cfg *appconfig.DatabaseConfig) error {
	dsn, err := DSN(cfg)
	if err != nil {
		return err
	}
	db, err := open(cfg.Driver, dsn)
	if err != nil {
		return fmt.Errorf("could not open migration connection: %w", err)
	}

	m, err := newMigrate(db, cfg.Driver)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("closing migration connection")
		}
	}()
	return up(m)
}

func newMigrate(db *sqlx.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("could not open migrations for %s: %w", driver, err)
	}

	var target migratedb.Driver
	switch driver {
	case appconfig.DriverMySQL:
		target, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case appconfig.DriverPostgres:
		target, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	case appconfig.DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("could not create migration instance: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
