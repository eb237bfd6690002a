package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/jpillora/backoff"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"

	appconfig "github.com/GTDGit/ewaste/internal/config"
)

func init() {
	// sqlx only knows "sqlite3"; modernc registers itself as "sqlite".
	sqlx.BindDriver(appconfig.DriverSQLite, sqlx.QUESTION)
}

// Retry policy for bootstrapping the connection (e.g. DB container starting up).
const (
	maxAttempts = 5
	baseDelay   = 500 * time.Millisecond
	maxDelay    = 5 * time.Second
)

// Connect opens the configured database and returns a pinged *sqlx.DB with pool
// settings applied. Opening and pinging are retried with exponential backoff.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	b := &backoff.Backoff{Min: baseDelay, Max: maxDelay, Factor: 2}

	var db *sqlx.DB
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, lastErr = open(cfg.Driver, dsn)
		if lastErr == nil {
			return db, nil
		}

		d := b.Duration()
		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", d).Str("driver", cfg.Driver).Msg("database not ready")
		if attempt < maxAttempts {
			time.Sleep(d)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

// Open opens and pings a database without retrying. Tests use it with an
// in-memory sqlite DSN.
func Open(driver, dsn string) (*sqlx.DB, error) {
	return open(driver, dsn)
}

func open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	setPool(db.DB, driver)

	// Ping with timeout to validate the connection.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN builds the driver-specific data source name.
func DSN(cfg *appconfig.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case appconfig.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.MultiStatements = true
		// RowsAffected reports matched rows, so an update with unchanged values still counts.
		mc.ClientFoundRows = true
		return mc.FormatDSN(), nil
	case appconfig.DriverPostgres:
		return fmt.Sprintf(
			"postgres://%s:%s@%s/%s?sslmode=%s",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
			net.JoinHostPort(cfg.Host, cfg.Port), url.PathEscape(cfg.Name), cfg.SSLMode,
		), nil
	case appconfig.DriverSQLite:
		return cfg.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// setPool configures the connection pool for the database.
func setPool(db *sql.DB, driver string) {
	if driver == appconfig.DriverSQLite {
		// A single writer; also keeps ":memory:" databases on one connection.
		db.SetMaxOpenConns(1)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}
