package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/hanzi-srs/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the database URL for tests, checking
// DATABASE_URL then SRS_TEST_DB_URL.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("SRS_TEST_DB_URL")
}

var migrateOnce sync.Map // database URL -> *migrationResult

type migrationResult struct {
	once sync.Once
	err  error
}

// GetTestDBWithT returns a migrated database connection that is closed when
// the test ends. The test is skipped when no database URL is configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or SRS_TEST_DB_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	// Migrations run once per process; parallel tests share the schema.
	v, _ := migrateOnce.LoadOrStore(dbURL, &migrationResult{})
	res := v.(*migrationResult)
	res.once.Do(func() {
		m, err := postgres.NewMigrator(db, nil)
		if err != nil {
			res.err = err
			return
		}
		res.err = m.Up(context.Background())
	})
	require.NoError(t, res.err, "Failed to run migrations")

	return db
}

// BeginTx starts a transaction that is rolled back when the test ends.
func BeginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	})
	return tx
}
