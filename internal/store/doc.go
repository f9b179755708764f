// Package store defines interfaces for data persistence operations.
// Every operation is scoped to a single store (one per shopkeeper) and the
// implementations live in internal/platform/postgres.
package store
