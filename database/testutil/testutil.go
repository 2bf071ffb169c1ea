// Package testutil provides database test helpers backed by a throwaway
// SQLite store, so pool behavior is exercised against a real driver without
// a running server.
package testutil

import (
	"path/filepath"
	"testing"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/kbukum/dbkit/database"
	"github.com/kbukum/dbkit/logger"
)

// NewPool creates an uninitialized pool over a file-backed SQLite database
// in a temp directory. The pool is closed when the test ends.
func NewPool(t *testing.T) *database.Pool {
	return NewPoolConfig(t, database.Config{})
}

// NewPoolConfig is NewPool with explicit pool configuration, for tests that
// need specific bounds (e.g. MaxOpenConns: 1).
func NewPoolConfig(t *testing.T, cfg database.Config) *database.Pool {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	pool := database.Open("sqlite", dsn, cfg, logger.Nop())
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("closing test pool: %v", err)
		}
	})
	return pool
}
