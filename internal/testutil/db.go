// Package testutil provides a throwaway database for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"society-billing-backend/internal/config"
)

// NewDB returns a migrated SQLite database living in t.TempDir().
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseURL: filepath.Join(t.TempDir(), "society.db") + "?_pragma=busy_timeout(5000)",
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err, "open test database")
	require.NoError(t, config.Migrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
