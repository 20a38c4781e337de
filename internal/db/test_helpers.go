package db

import (
	"path/filepath"
	"testing"
)

// NewTestDB opens a migrated database in a per-test temporary directory
// and closes it when the test ends.
func NewTestDB(t testing.TB) *DB {
	t.Helper()

	db, err := OpenMigrated(filepath.Join(t.TempDir(), "advection.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
