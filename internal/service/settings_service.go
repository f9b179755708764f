package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// SettingsService reads and writes per-store settings.
type SettingsService interface {
	// GetSettings returns the store's settings, or the defaults if it has
	// never saved any.
	GetSettings(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error)

	SaveSettings(ctx context.Context, userID uuid.UUID, shopName, slug string) (*domain.Settings, error)
}

type settingsServiceImpl struct {
	settings store.SettingsStore
	logger   *slog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settings store.SettingsStore, logger *slog.Logger) (SettingsService, error) {
	if settings == nil {
		return nil, domain.NewValidationError("settings", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsServiceImpl{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_service")),
	}, nil
}

func (s *settingsServiceImpl) GetSettings(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx, storeID)
	if err != nil {
		return nil, NewServiceError("settings", "get", err)
	}
	return settings, nil
}

func (s *settingsServiceImpl) SaveSettings(
	ctx context.Context,
	userID uuid.UUID,
	shopName, slug string,
) (*domain.Settings, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings, err := domain.NewSettings(userID, shopName, slug)
	if err != nil {
		return nil, err
	}

	if err := s.settings.Save(ctx, settings); err != nil {
		if errors.Is(err, store.ErrSlugTaken) {
			log.Debug("slug already taken", slog.String("slug", settings.Slug))
			return nil, NewServiceError("settings", "save", ErrSlugTaken)
		}
		log.Error("failed to save settings", slog.String("error", err.Error()))
		return nil, NewServiceError("settings", "save", err)
	}

	log.Info("settings saved", slog.String("store_id", userID.String()))
	return settings, nil
}
