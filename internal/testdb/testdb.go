// Package testdb opens a migrated sqlite database for tests.
package testdb

import (
	"path/filepath"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"testing"

	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(config.Database{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
