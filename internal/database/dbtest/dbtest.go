// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/database"
)

// Open returns a migrated database in t's temp dir, closed on cleanup
func Open(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

// SeedMember inserts a member row directly and returns its ID
func SeedMember(t testing.TB, db *database.DB, name string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO members (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		id, name, name+"-"+id[:8]+"@example.com", time.Now().UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}
	return id
}
