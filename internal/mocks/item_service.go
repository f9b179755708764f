package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// MockItemService implements service.ItemService for testing
type MockItemService struct {
	AddItemFn          func(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (*domain.Item, error)
	EditItemFn         func(ctx context.Context, userID, itemID uuid.UUID, fields domain.ItemFields) (*domain.Item, error)
	DeleteItemFn       func(ctx context.Context, userID, itemID uuid.UUID) error
	GetItemFn          func(ctx context.Context, storeID, itemID uuid.UUID) (*domain.Item, error)
	ListItemsFn        func(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error)
	SetPurchasedFn     func(ctx context.Context, userID, itemID uuid.UUID, purchased bool) (*domain.Item, error)
	ImportItemsFn      func(ctx context.Context, userID uuid.UUID, fields []domain.ItemFields) ([]*domain.Item, error)
	DraftDescriptionFn func(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (string, error)
}

var _ service.ItemService = (*MockItemService)(nil)

func (m *MockItemService) AddItem(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (*domain.Item, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, userID, fields)
	}
	return nil, nil
}

func (m *MockItemService) EditItem(ctx context.Context, userID, itemID uuid.UUID, fields domain.ItemFields) (*domain.Item, error) {
	if m.EditItemFn != nil {
		return m.EditItemFn(ctx, userID, itemID, fields)
	}
	return nil, nil
}

func (m *MockItemService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, userID, itemID)
	}
	return nil
}

func (m *MockItemService) GetItem(ctx context.Context, storeID, itemID uuid.UUID) (*domain.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, storeID, itemID)
	}
	return nil, nil
}

func (m *MockItemService) ListItems(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, storeID)
	}
	return nil, nil
}

func (m *MockItemService) SetPurchased(ctx context.Context, userID, itemID uuid.UUID, purchased bool) (*domain.Item, error) {
	if m.SetPurchasedFn != nil {
		return m.SetPurchasedFn(ctx, userID, itemID, purchased)
	}
	return nil, nil
}

func (m *MockItemService) ImportItems(ctx context.Context, userID uuid.UUID, fields []domain.ItemFields) ([]*domain.Item, error) {
	if m.ImportItemsFn != nil {
		return m.ImportItemsFn(ctx, userID, fields)
	}
	return nil, nil
}

func (m *MockItemService) DraftDescription(ctx context.Context, userID uuid.UUID, fields domain.ItemFields) (string, error) {
	if m.DraftDescriptionFn != nil {
		return m.DraftDescriptionFn(ctx, userID, fields)
	}
	return "", nil
}
