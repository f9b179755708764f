package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/store"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockItemStore mocks the store.ItemStore interface
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemStore) GetByID(ctx context.Context, storeID, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	args := m.Called(tx)
	return args.Get(0).(store.ItemStore)
}

// memoryDisplayStore keeps displays in a map.
type memoryDisplayStore struct {
	mu       sync.Mutex
	displays map[domain.Surface]*domain.Display
	saveErr  error
}

func newMemoryDisplayStore() *memoryDisplayStore {
	return &memoryDisplayStore{displays: make(map[domain.Surface]*domain.Display)}
}

func (m *memoryDisplayStore) Get(ctx context.Context, storeID uuid.UUID, surface domain.Surface) (*domain.Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.displays[surface]; ok && d.StoreID == storeID {
		return d, nil
	}
	return domain.EmptyDisplay(storeID, surface), nil
}

func (m *memoryDisplayStore) Save(ctx context.Context, display *domain.Display) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displays[display.Surface] = display
	return nil
}

// MockSettingsStore uses function fields so each test sets only what it needs.
type MockSettingsStore struct {
	GetFn         func(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error)
	SaveFn        func(ctx context.Context, settings *domain.Settings) error
	ResolveSlugFn func(ctx context.Context, slug string) (uuid.UUID, error)
}

func (m *MockSettingsStore) Get(ctx context.Context, storeID uuid.UUID) (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, storeID)
	}
	return domain.DefaultSettings(storeID), nil
}

func (m *MockSettingsStore) Save(ctx context.Context, settings *domain.Settings) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, settings)
	}
	return nil
}

func (m *MockSettingsStore) ResolveSlug(ctx context.Context, slug string) (uuid.UUID, error) {
	if m.ResolveSlugFn != nil {
		return m.ResolveSlugFn(ctx, slug)
	}
	return uuid.Nil, store.ErrSlugNotFound
}

// MockUserStore uses function fields so each test sets only what it needs.
type MockUserStore struct {
	UpsertGitHubUserFn func(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *MockUserStore) UpsertGitHubUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.UpsertGitHubUserFn != nil {
		return m.UpsertGitHubUserFn(ctx, user)
	}
	return user, nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// MockDrafter returns a canned description.
type MockDrafter struct {
	Text string
	Err  error
}

func (m *MockDrafter) DraftDescription(ctx context.Context, fields domain.ItemFields) (string, error) {
	return m.Text, m.Err
}

// recordingObserver counts restocks per surface.
type recordingObserver struct {
	restocks map[string]int
}

func (r *recordingObserver) RestockRecorded(surface string) {
	if r.restocks == nil {
		r.restocks = make(map[string]int)
	}
	r.restocks[surface]++
}

// noTx is a store.TxBeginner for services whose tests never open a transaction.
type noTx struct{}

func (noTx) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type stubRenderer struct{}

func (stubRenderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	return "<p>" + source + "</p>\n", nil
}

// newItem builds a valid item for storeID, failing loudly on bad fields.
func newItem(storeID uuid.UUID, name string, rarity domain.Rarity, mutate ...func(*domain.ItemFields)) *domain.Item {
	fields := domain.ItemFields{Name: name, Category: "Wondrous Item", Rarity: rarity}
	for _, m := range mutate {
		m(&fields)
	}
	item, err := domain.NewItem(storeID, fields)
	if err != nil {
		panic(err)
	}
	return item
}

func pinned(f *domain.ItemFields)    { f.Stocked = true }
func purchased(f *domain.ItemFields) { f.Purchased = true }
func gachapon(f *domain.ItemFields)  { f.Gachapon = true }
