// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store, the embedded goose migrations that create the schema, and
// a LISTEN/NOTIFY listener that turns row changes into events.ChangeEvent.
//
// Stores accept a store.DBTX so they work the same on *sql.DB and *sql.Tx.
// Connections go through the pgx stdlib driver registered as "pgx".
package postgres
