package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// DescriptionDrafter writes a description for an item from its other fields.
type DescriptionDrafter interface {
	DraftDescription(ctx context.Context, fields domain.ItemFields) (string, error)
}

// ItemService manages the items of a store. Every write takes the signed-in
// user's ID, which is also the ID of the store written to.
type ItemService interface {
	AddItem(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (*domain.Item, error)

	// EditItem replaces every editable field of an existing item.
	EditItem(ctx context.Context, userID, itemID uuid.UUID, fields domain.ItemFields) (*domain.Item, error)

	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error

	GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*domain.Item, error)

	// ListItems returns every item in the store sorted by name.
	ListItems(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error)

	SetPurchased(ctx context.Context, userID, itemID uuid.UUID, purchased bool) (*domain.Item, error)

	// ImportItems creates all items in one transaction; either every item
	// is stored or none is.
	ImportItems(ctx context.Context, userID uuid.UUID, fields []domain.ItemFields) ([]*domain.Item, error)

	DraftDescription(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (string, error)
}

type itemServiceImpl struct {
	items   store.ItemStore
	db      store.TxBeginner
	drafter DescriptionDrafter
	logger  *slog.Logger
}

// NewItemService creates a new ItemService. drafter may be nil, in which
// case DraftDescription returns ErrDrafterUnavailable.
func NewItemService(
	items store.ItemStore,
	db store.TxBeginner,
	drafter DescriptionDrafter,
	logger *slog.Logger,
) (ItemService, error) {
	if items == nil {
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &itemServiceImpl{
		items:   items,
		db:      db,
		drafter: drafter,
		logger:  logger.With(slog.String("component", "item_service")),
	}, nil
}

func (s *itemServiceImpl) AddItem(
	ctx context.Context,
	userID uuid.UUID,
	fields domain.ItemFields,
) (*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewItem(userID, fields)
	if err != nil {
		log.Debug("invalid item", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("store_id", userID.String()))
		return nil, NewServiceError("item", "add", err)
	}

	log.Info("item added",
		slog.String("store_id", userID.String()),
		slog.String("item_id", item.ID.String()))
	return item, nil
}

func (s *itemServiceImpl) EditItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	fields domain.ItemFields,
) (*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, NewServiceError("item", "edit", err)
	}

	if err := item.Replace(fields); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, item); err != nil {
		log.Error("failed to update item",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return nil, NewServiceError("item", "edit", err)
	}

	log.Debug("item edited", slog.String("item_id", itemID.String()))
	return item, nil
}

func (s *itemServiceImpl) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrNotSignedIn
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.items.Delete(ctx, userID, itemID); err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to delete item",
				slog.String("error", err.Error()),
				slog.String("item_id", itemID.String()))
		}
		return NewServiceError("item", "delete", err)
	}

	log.Info("item deleted", slog.String("item_id", itemID.String()))
	return nil
}

func (s *itemServiceImpl) GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, storeID, itemID)
	if err != nil {
		return nil, NewServiceError("item", "get", err)
	}
	return item, nil
}

func (s *itemServiceImpl) ListItems(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error) {
	items, err := s.items.ListByStore(ctx, storeID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list items",
			slog.String("error", err.Error()),
			slog.String("store_id", storeID.String()))
		return nil, NewServiceError("item", "list", err)
	}
	domain.SortByName(items)
	return items, nil
}

func (s *itemServiceImpl) SetPurchased(
	ctx context.Context,
	userID, itemID uuid.UUID,
	purchased bool,
) (*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}

	item, err := s.items.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, NewServiceError("item", "set_purchased", err)
	}

	item.MarkPurchased(purchased)
	if err := s.items.Update(ctx, item); err != nil {
		return nil, NewServiceError("item", "set_purchased", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("item purchase state changed",
		slog.String("item_id", itemID.String()),
		slog.Bool("purchased", purchased))
	return item, nil
}

func (s *itemServiceImpl) ImportItems(
	ctx context.Context,
	userID uuid.UUID,
	fields []domain.ItemFields,
) ([]*domain.Item, error) {
	if userID == uuid.Nil {
		return nil, ErrNotSignedIn
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	items := make([]*domain.Item, 0, len(fields))
	for _, f := range fields {
		item, err := domain.NewItem(userID, f)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return items, nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.items.WithTx(tx).CreateMultiple(ctx, items)
	})
	if err != nil {
		log.Error("failed to import items",
			slog.String("error", err.Error()),
			slog.Int("count", len(items)))
		return nil, NewServiceError("item", "import", err)
	}

	log.Info("items imported",
		slog.String("store_id", userID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

func (s *itemServiceImpl) DraftDescription(
	ctx context.Context,
	userID uuid.UUID,
	fields domain.ItemFields,
) (string, error) {
	if userID == uuid.Nil {
		return "", ErrNotSignedIn
	}
	if s.drafter == nil {
		return "", ErrDrafterUnavailable
	}

	text, err := s.drafter.DraftDescription(ctx, fields)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.FromContextOrDefault(ctx, s.logger).Warn("description draft failed",
				slog.String("error", err.Error()))
		}
		return "", NewServiceError("item", "draft_description", err)
	}
	return text, nil
}
