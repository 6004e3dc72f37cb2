// Package testdb connects integration tests to a real PostgreSQL database
// and isolates each test in a transaction that is always rolled back.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/texdrill-api/internal/config"
	"github.com/phrazzld/texdrill-api/internal/platform/postgres"
	"github.com/phrazzld/texdrill-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connecting and migrating.
const TestTimeout = 30 * time.Second

// urlEnvVars are checked in order for the test database URL.
var urlEnvVars = []string{"DATABASE_URL", "TEXDRILL_TEST_DB_URL", "TEXDRILL_DATABASE_URL"}

var migrateOnce sync.Once
var migrateErr error

// GetTestDatabaseURL returns the first non-empty database URL variable.
func GetTestDatabaseURL() string {
	for _, name := range urlEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a database URL is set.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ErrNoDatabase is returned by Connect when no database URL is set.
var ErrNoDatabase = errors.New("no test database URL set")

// Connect opens the test database and applies migrations once per process.
func Connect(ctx context.Context) (*sql.DB, error) {
	url := GetTestDatabaseURL()
	if url == "" {
		return nil, ErrNoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 10, MaxIdleConns: 5}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", redact.String(url), err)
	}

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, nil, postgres.MigrateUp)
	})
	if migrateErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate test database: %w", migrateErr)
	}
	return db, nil
}

// Open is Connect for a single test. It skips the test when no database
// is configured and closes the pool on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Connect(context.Background())
	if errors.Is(err, ErrNoDatabase) {
		t.Skip("DATABASE_URL not set, skipping database test")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithTx runs fn in a transaction that is rolled back afterwards, even if
// fn panics.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
