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

const settingsSlugConstraint = "settings_slug_key"

// PostgresSettingsStore implements store.SettingsStore.
// An empty slug is stored as NULL so many stores can go without one.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// Get implements store.SettingsStore.Get
func (s *PostgresSettingsStore) Get(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings := &domain.Settings{StoreID: storeID}
	var slug sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT shop_name, slug, updated_at FROM settings WHERE store_id = $1`, storeID,
	).Scan(&settings.ShopName, &slug, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(storeID), nil
		}
		log.Error("failed to get settings",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, MapError(err)
	}
	settings.Slug = slug.String
	return settings, nil
}

// Save implements store.SettingsStore.Save
func (s *PostgresSettingsStore) Save(ctx context.Context, settings *domain.Settings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		return err
	}

	slug := sql.NullString{String: settings.Slug, Valid: settings.Slug != ""}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (store_id, shop_name, slug, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id)
		DO UPDATE SET shop_name = EXCLUDED.shop_name, slug = EXCLUDED.slug, updated_at = EXCLUDED.updated_at`,
		settings.StoreID, settings.ShopName, slug, settings.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, settingsSlugConstraint) {
			log.Warn("slug already taken",
				slog.String("store_id", settings.StoreID.String()),
				slog.String("slug", settings.Slug))
			return fmt.Errorf("%w: %s", store.ErrSlugTaken, settings.Slug)
		}
		log.Error("failed to save settings",
			slog.String("error", err.Error()),
			slog.String("store_id", settings.StoreID.String()))
		return MapError(err)
	}

	log.Debug("settings saved", slog.String("store_id", settings.StoreID.String()))
	return nil
}

// ResolveSlug implements store.SettingsStore.ResolveSlug
func (s *PostgresSettingsStore) ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	var storeID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT store_id FROM settings WHERE slug = $1`, slug,
	).Scan(&storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, store.ErrSlugNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to resolve slug",
			slog.String("error", err.Error()),
			slog.String("slug", slug))
		return uuid.Nil, MapError(err)
	}
	return storeID, nil
}
