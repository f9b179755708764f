//go:build integration

// Package testdb supports integration tests against a real Postgres.
//
// Tests call Open to get a migrated connection, skipping when
// MAGICSHOP_TEST_DATABASE_URL is unset, and WithTx to run a body inside a
// transaction that is always rolled back:
//
//	db := testdb.Open(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		items := postgres.NewPostgresItemStore(tx, nil)
//		...
//	})
//
// Rolled back transactions never publish change notifications, so tests
// of the change listener must write through db directly.
package testdb
