// Package testutil provides common utility functions for testing.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/QingyuanL1/financial-backend-sub000/internal/config"
	"github.com/QingyuanL1/financial-backend-sub000/internal/store"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
	"go.uber.org/zap"
)

// OpenStore opens a migrated SQLite store in a temporary directory that is
// closed when the test ends.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(config.DatabaseConfig{
		Driver: constants.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return s
}

// FindItem finds the first item whose field equals value.
// Returns nil if no item matches.
func FindItem(items []map[string]any, field string, value any) map[string]any {
	for _, item := range items {
		if item[field] == value {
			return item
		}
	}
	return nil
}
