// Package testdb provides an isolated in-memory database for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/cardbot/internal/config"
	"github.com/example/cardbot/internal/database"
	"github.com/example/cardbot/internal/logger"
)

// New opens a fresh in-memory SQLite database with the full schema. The
// database is closed when the test finishes.
func New(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver: "sqlite3",
		Path:   ":memory:",
	}, logger.Nop())
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithTx runs fn in a committed transaction and fails the test on error
func WithTx(t *testing.T, db *database.DB, fn func(tx *database.Tx) error) {
	t.Helper()

	err := db.RunInTransaction(context.Background(), func(_ context.Context, tx *database.Tx) error {
		return fn(tx)
	})
	require.NoError(t, err)
}
