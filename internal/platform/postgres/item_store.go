package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

const itemColumns = `id, store_id, name, category, category_notes, rarity, description,
	source, restrictions, attunement, stocked, purchased, gachapon, created_at, updated_at`

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// Create implements store.ItemStore.Create
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	if err := s.insert(ctx, item); err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("store_id", item.StoreID.String()))
		return err
	}

	log.Debug("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("store_id", item.StoreID.String()))
	return nil
}

// CreateMultiple implements store.ItemStore.CreateMultiple
// All items are validated before any is written.
func (s *PostgresItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_name", item.Name))
			return err
		}
	}

	for _, item := range items {
		if err := s.insert(ctx, item); err != nil {
			log.Error("failed to create item in batch",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	log.Info("items created", slog.Int("count", len(items)))
	return nil
}

func (s *PostgresItemStore) insert(ctx context.Context, item *domain.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.StoreID,
		item.Name,
		item.Category,
		item.CategoryNotes,
		string(item.Rarity),
		item.Description,
		item.Source,
		item.Restrictions,
		item.Attunement,
		item.Stocked,
		item.Purchased,
		item.Gachapon,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: store %s does not exist", store.ErrInvalidEntity, item.StoreID)
		}
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", store.ErrItemExists, item.ID)
		}
		return MapError(err)
	}
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *PostgresItemStore) GetByID(ctx context.Context, storeID, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND store_id = $2`
	item, err := scanItem(s.db.QueryRowContext(ctx, query, id, storeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}
	return item, nil
}

// ListByStore implements store.ItemStore.ListByStore
func (s *PostgresItemStore) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM items WHERE store_id = $1`
	rows, err := s.db.QueryContext(ctx, query, storeID)
	if err != nil {
		log.Error("failed to list items",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate items",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, MapError(err)
	}

	log.Debug("items listed",
		slog.String("store_id", storeID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// Update implements store.ItemStore.Update
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE items SET
			name = $3, category = $4, category_notes = $5, rarity = $6, description = $7,
			source = $8, restrictions = $9, attunement = $10, stocked = $11,
			purchased = $12, gachapon = $13, updated_at = $14
		WHERE id = $1 AND store_id = $2`

	result, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.StoreID,
		item.Name,
		item.Category,
		item.CategoryNotes,
		string(item.Rarity),
		item.Description,
		item.Source,
		item.Restrictions,
		item.Attunement,
		item.Stocked,
		item.Purchased,
		item.Gachapon,
		item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Debug("item updated", slog.String("item_id", item.ID.String()))
	return nil
}

// Delete implements store.ItemStore.Delete
func (s *PostgresItemStore) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		log.Error("failed to delete item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Debug("item deleted", slog.String("item_id", id.String()))
	return nil
}

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var rarity string
	err := row.Scan(
		&item.ID,
		&item.StoreID,
		&item.Name,
		&item.Category,
		&item.CategoryNotes,
		&rarity,
		&item.Description,
		&item.Source,
		&item.Restrictions,
		&item.Attunement,
		&item.Stocked,
		&item.Purchased,
		&item.Gachapon,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Rarity = domain.Rarity(rarity)
	return &item, nil
}
