package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// ItemStore defines the interface for inventory persistence.
// Every lookup is scoped by store ID; an item in another store is reported
// as ErrItemNotFound.
type ItemStore interface {
	// Create saves a new item.
	// Returns validation errors from the domain Item if data is invalid.
	Create(ctx context.Context, item *domain.Item) error

	// CreateMultiple saves several items.
	// It MUST be run within a transaction for atomicity; use WithTx with
	// RunInTransaction:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return itemStore.WithTx(tx).CreateMultiple(ctx, items)
	//   })
	CreateMultiple(ctx context.Context, items []*domain.Item) error

	// GetByID retrieves an item from the given store.
	// Returns ErrItemNotFound if it does not exist.
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*domain.Item, error)

	// ListByStore returns every item in the store, in no particular order.
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error)

	// Update replaces every editable field of the item.
	// Returns ErrItemNotFound if it does not exist in item.StoreID.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item. Display lists referencing it are left as is.
	// Returns ErrItemNotFound if it does not exist.
	Delete(ctx context.Context, storeID, id uuid.UUID) error

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}
