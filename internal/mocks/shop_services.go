package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/service"
)

// MockSettingsService implements service.SettingsService for testing
type MockSettingsService struct {
	GetSettingsFn  func(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error)
	SaveSettingsFn func(ctx context.Context, userID uuid.UUID, shopName, slug string) (*domain.Settings, error)
}

var _ service.SettingsService = (*MockSettingsService)(nil)

func (m *MockSettingsService) GetSettings(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error) {
	if m.GetSettingsFn != nil {
		return m.GetSettingsFn(ctx, storeID)
	}
	return domain.DefaultSettings(storeID), nil
}

func (m *MockSettingsService) SaveSettings(ctx context.Context, userID uuid.UUID, shopName, slug string) (*domain.Settings, error) {
	if m.SaveSettingsFn != nil {
		return m.SaveSettingsFn(ctx, userID, shopName, slug)
	}
	return &domain.Settings{StoreID: userID, ShopName: shopName, Slug: slug}, nil
}

// MockUserService implements service.UserService for testing
type MockUserService struct {
	GetUserFn func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SignInFn  func(ctx context.Context, githubID int64, login, name, avatarURL string) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserService) SignIn(ctx context.Context, githubID int64, login, name, avatarURL string) (*domain.User, error) {
	if m.SignInFn != nil {
		return m.SignInFn(ctx, githubID, login, name, avatarURL)
	}
	return nil, nil
}

// MockShopService implements service.ShopService for testing
type MockShopService struct {
	ShopStateFn func(ctx context.Context, storeID uuid.UUID, kinds ...events.ChangeKind) (*service.ShopState, error)
}

var _ service.ShopService = (*MockShopService)(nil)

func (m *MockShopService) ShopState(ctx context.Context, storeID uuid.UUID, kinds ...events.ChangeKind) (*service.ShopState, error) {
	if m.ShopStateFn != nil {
		return m.ShopStateFn(ctx, storeID, kinds...)
	}
	return &service.ShopState{StoreID: storeID}, nil
}

// MockStorefrontService implements service.StorefrontService for testing
type MockStorefrontService struct {
	StorefrontFn func(ctx context.Context, ref string) (*service.Storefront, error)
}

var _ service.StorefrontService = (*MockStorefrontService)(nil)

func (m *MockStorefrontService) Storefront(ctx context.Context, ref string) (*service.Storefront, error) {
	if m.StorefrontFn != nil {
		return m.StorefrontFn(ctx, ref)
	}
	return nil, service.ErrStoreNotFound
}
