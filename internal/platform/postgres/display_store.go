package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// PostgresDisplayStore implements store.DisplayStore. Item IDs are kept as
// a JSONB array so a surface is read and replaced as a single value.
type PostgresDisplayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDisplayStore creates a new PostgreSQL implementation of the DisplayStore interface.
func NewPostgresDisplayStore(db store.DBTX, logger *slog.Logger) *PostgresDisplayStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDisplayStore{
		db:     db,
		logger: logger.With(slog.String("component", "display_store")),
	}
}

var _ store.DisplayStore = (*PostgresDisplayStore)(nil)

// Get implements store.DisplayStore.Get
func (s *PostgresDisplayStore) Get(
	ctx context.Context,
	storeID uuid.UUID,
	surface domain.Surface,
) (*domain.Display, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var raw []byte
	display := domain.EmptyDisplay(storeID, surface)
	err := s.db.QueryRowContext(ctx,
		`SELECT item_ids, updated_at FROM displays WHERE store_id = $1 AND surface = $2`,
		storeID, string(surface),
	).Scan(&raw, &display.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return display, nil
		}
		log.Error("failed to get display",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()),
			slog.String("surface", string(surface)))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(raw, &display.ItemIDs); err != nil {
		log.Error("stored display is not a list of IDs",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, fmt.Errorf("%w: malformed item_ids: %v", store.ErrInvalidEntity, err)
	}
	if display.ItemIDs == nil {
		display.ItemIDs = []uuid.UUID{}
	}
	return display, nil
}

// Save implements store.DisplayStore.Save
func (s *PostgresDisplayStore) Save(ctx context.Context, display *domain.Display) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids := display.ItemIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode item_ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO displays (store_id, surface, item_ids, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, surface)
		DO UPDATE SET item_ids = EXCLUDED.item_ids, updated_at = EXCLUDED.updated_at`,
		display.StoreID, string(display.Surface), string(raw), display.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save display",
			slog.String("error", err.Error()),
			slog.String("store_id", display.StoreID.String()),
			slog.String("surface", string(display.Surface)))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: store %s does not exist", store.ErrInvalidEntity, display.StoreID)
		}
		return MapError(err)
	}

	log.Debug("display saved",
		slog.String("store_id", display.StoreID.String()),
		slog.String("surface", string(display.Surface)),
		slog.Int("item_count", len(ids)))
	return nil
}
