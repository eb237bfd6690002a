// Package dbtest provides a migrated in-memory database for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ewaste/internal/config"
	"github.com/GTDGit/ewaste/internal/database"
)

// New returns an empty, migrated in-memory sqlite database that is closed
// when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
