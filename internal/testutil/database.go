// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"testing"

	"github.com/bistro-ops/bistro/internal/database"
)

// NewTestDB returns a migrated in-memory database that is closed when the
// test finishes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
