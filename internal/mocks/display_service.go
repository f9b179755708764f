package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// MockDisplayService implements service.DisplayService for testing
type MockDisplayService struct {
	CurrentFn   func(ctx context.Context, storeID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)
	RandomizeFn func(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)
	SaveFn      func(ctx context.Context, userID uuid.UUID, surface domain.Surface, ids []uuid.UUID) ([]*domain.Item, error)
	RestockFn   func(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error)
	SpinFn      func(ctx context.Context, storeID uuid.UUID) (*domain.Item, error)
}

var _ service.DisplayService = (*MockDisplayService)(nil)

func (m *MockDisplayService) Current(ctx context.Context, storeID uuid.UUID, surface domain.Surface) ([]*domain.Item, error) {
	if m.CurrentFn != nil {
		return m.CurrentFn(ctx, storeID, surface)
	}
	return nil, nil
}

func (m *MockDisplayService) Randomize(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error) {
	if m.RandomizeFn != nil {
		return m.RandomizeFn(ctx, userID, surface)
	}
	return nil, nil
}

func (m *MockDisplayService) Save(ctx context.Context, userID uuid.UUID, surface domain.Surface, ids []uuid.UUID) ([]*domain.Item, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, userID, surface, ids)
	}
	return nil, nil
}

func (m *MockDisplayService) Restock(ctx context.Context, userID uuid.UUID, surface domain.Surface) ([]*domain.Item, error) {
	if m.RestockFn != nil {
		return m.RestockFn(ctx, userID, surface)
	}
	return nil, nil
}

func (m *MockDisplayService) Spin(ctx context.Context, storeID uuid.UUID) (*domain.Item, error) {
	if m.SpinFn != nil {
		return m.SpinFn(ctx, storeID)
	}
	return nil, nil
}
