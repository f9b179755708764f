//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/magicshop-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable holding the test database URL.
const URLEnv = "MAGICSHOP_TEST_DATABASE_URL"

// Timeout bounds connection checks and migrations.
const Timeout = 30 * time.Second

// URL returns the test database URL, or "" when integration tests are off.
func URL() string {
	return os.Getenv(URLEnv)
}

// Open connects to the test database and migrates it up. The test is
// skipped when URLEnv is unset. The connection closes on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	url := URL()
	if url == "" {
		t.Skipf("%s not set", URLEnv)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "test database unreachable at %s", postgres.MaskDatabaseURL(url))
	require.NoError(t, postgres.Migrate(ctx, db, "up", quietLogger()), "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, even
// when fn fails the test or panics.
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
