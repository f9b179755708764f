package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newItemService(t *testing.T, items *MockItemStore, drafter DescriptionDrafter) (ItemService, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewItemService(items, db, drafter, quietLogger())
	require.NoError(t, err)
	return svc, dbMock
}

func TestNewItemService(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewItemService(nil, db, nil, nil)
	assert.ErrorContains(t, err, "items")

	_, err = NewItemService(&MockItemStore{}, nil, nil, nil)
	assert.ErrorContains(t, err, "db")

	svc, err := NewItemService(&MockItemStore{}, db, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestItemServiceRequiresSignIn(t *testing.T) {
	items := &MockItemStore{}
	svc, _ := newItemService(t, items, &MockDrafter{Text: "x"})
	ctx := context.Background()
	fields := domain.ItemFields{Name: "Orb", Category: "Wondrous Item", Rarity: domain.RarityRare}

	_, err := svc.AddItem(ctx, uuid.Nil, fields)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.EditItem(ctx, uuid.Nil, uuid.New(), fields)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.ErrorIs(t, svc.DeleteItem(ctx, uuid.Nil, uuid.New()), ErrNotSignedIn)
	_, err = svc.SetPurchased(ctx, uuid.Nil, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.ImportItems(ctx, uuid.Nil, []domain.ItemFields{fields})
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = svc.DraftDescription(ctx, uuid.Nil, fields)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("stores a new item in the caller's store", func(t *testing.T) {
		items := &MockItemStore{}
		items.On("Create", mock.Anything, mock.MatchedBy(func(i *domain.Item) bool {
			return i.StoreID == userID && i.Name == "Bag of Holding"
		})).Return(nil)
		svc, _ := newItemService(t, items, nil)

		item, err := svc.AddItem(ctx, userID, domain.ItemFields{
			Name: " Bag of Holding ", Category: "Wondrous Item", Rarity: domain.RarityUncommon,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		items.AssertExpectations(t)
	})

	t.Run("invalid fields never reach the store", func(t *testing.T) {
		items := &MockItemStore{}
		svc, _ := newItemService(t, items, nil)

		_, err := svc.AddItem(ctx, userID, domain.ItemFields{Name: "Orb", Rarity: domain.RarityRare})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category", verr.Field)
		items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		items := &MockItemStore{}
		dbErr := errors.New("connection reset")
		items.On("Create", mock.Anything, mock.Anything).Return(dbErr)
		svc, _ := newItemService(t, items, nil)

		_, err := svc.AddItem(ctx, userID, domain.ItemFields{
			Name: "Orb", Category: "Wondrous Item", Rarity: domain.RarityRare,
		})
		assert.ErrorIs(t, err, dbErr)
		var serr *ServiceError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "add", serr.Op)
	})
}

func TestEditItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("replaces every field", func(t *testing.T) {
		existing := newItem(userID, "Old Name", domain.RarityCommon, pinned)
		items := &MockItemStore{}
		items.On("GetByID", mock.Anything, userID, existing.ID).Return(existing, nil)
		items.On("Update", mock.Anything, existing).Return(nil)
		svc, _ := newItemService(t, items, nil)

		got, err := svc.EditItem(ctx, userID, existing.ID, domain.ItemFields{
			Name: "New Name", Category: "Ring", Rarity: domain.RarityLegendary,
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
		assert.Equal(t, domain.RarityLegendary, got.Rarity)
		assert.False(t, got.Stocked, "edit is a full replace")
		items.AssertExpectations(t)
	})

	t.Run("item from another store is not found", func(t *testing.T) {
		items := &MockItemStore{}
		itemID := uuid.New()
		items.On("GetByID", mock.Anything, userID, itemID).Return(nil, store.ErrItemNotFound)
		svc, _ := newItemService(t, items, nil)

		_, err := svc.EditItem(ctx, userID, itemID, domain.ItemFields{
			Name: "X", Category: "Ring", Rarity: domain.RarityRare,
		})
		assert.ErrorIs(t, err, store.ErrItemNotFound)
		items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid replacement leaves item untouched", func(t *testing.T) {
		existing := newItem(userID, "Keep Me", domain.RarityCommon)
		items := &MockItemStore{}
		items.On("GetByID", mock.Anything, userID, existing.ID).Return(existing, nil)
		svc, _ := newItemService(t, items, nil)

		_, err := svc.EditItem(ctx, userID, existing.ID, domain.ItemFields{Name: "", Category: "Ring", Rarity: domain.RarityRare})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "Keep Me", existing.Name)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	userID, itemID := uuid.New(), uuid.New()

	items := &MockItemStore{}
	items.On("Delete", mock.Anything, userID, itemID).Return(nil).Once()
	items.On("Delete", mock.Anything, userID, itemID).Return(store.ErrItemNotFound).Once()
	svc, _ := newItemService(t, items, nil)

	require.NoError(t, svc.DeleteItem(ctx, userID, itemID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, userID, itemID), store.ErrItemNotFound)
}

func TestListItemsSortsByName(t *testing.T) {
	storeID := uuid.New()
	items := &MockItemStore{}
	items.On("ListByStore", mock.Anything, storeID).Return([]*domain.Item{
		newItem(storeID, "zephyr boots", domain.RarityRare),
		newItem(storeID, "Amulet", domain.RarityRare),
		newItem(storeID, "Mirror", domain.RarityRare),
	}, nil)
	svc, _ := newItemService(t, items, nil)

	got, err := svc.ListItems(context.Background(), storeID)
	require.NoError(t, err)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"Amulet", "Mirror", "zephyr boots"}, names)
}

func TestSetPurchased(t *testing.T) {
	userID := uuid.New()
	item := newItem(userID, "Potion", domain.RarityCommon)
	items := &MockItemStore{}
	items.On("GetByID", mock.Anything, userID, item.ID).Return(item, nil)
	items.On("Update", mock.Anything, mock.MatchedBy(func(i *domain.Item) bool { return i.Purchased })).Return(nil)
	svc, _ := newItemService(t, items, nil)

	got, err := svc.SetPurchased(context.Background(), userID, item.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Purchased)
	items.AssertExpectations(t)
}

func TestImportItems(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	fields := []domain.ItemFields{
		{Name: "Rope of Climbing", Category: "Wondrous Item", Rarity: domain.RarityUncommon},
		{Name: "Deck of Many Things", Category: "Wondrous Item", Rarity: domain.RarityLegendary},
	}

	t.Run("commits all items together", func(t *testing.T) {
		items := &MockItemStore{}
		svc, dbMock := newItemService(t, items, nil)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()
		items.On("WithTx", mock.Anything).Return(items)
		items.On("CreateMultiple", mock.Anything, mock.MatchedBy(func(list []*domain.Item) bool {
			return len(list) == 2 && list[0].StoreID == userID
		})).Return(nil)

		got, err := svc.ImportItems(ctx, userID, fields)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("rolls back on store failure", func(t *testing.T) {
		items := &MockItemStore{}
		svc, dbMock := newItemService(t, items, nil)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		items.On("WithTx", mock.Anything).Return(items)
		items.On("CreateMultiple", mock.Anything, mock.Anything).Return(store.ErrItemExists)

		_, err := svc.ImportItems(ctx, userID, fields)
		assert.ErrorIs(t, err, store.ErrItemExists)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("invalid entry aborts before the transaction", func(t *testing.T) {
		items := &MockItemStore{}
		svc, dbMock := newItemService(t, items, nil)

		_, err := svc.ImportItems(ctx, userID, append(fields, domain.ItemFields{Name: "Nameless"}))
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestDraftDescription(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	fields := domain.ItemFields{Name: "Lantern of Revealing", Category: "Wondrous Item"}

	t.Run("unavailable without drafter", func(t *testing.T) {
		svc, _ := newItemService(t, &MockItemStore{}, nil)
		_, err := svc.DraftDescription(ctx, userID, fields)
		assert.ErrorIs(t, err, ErrDrafterUnavailable)
	})

	t.Run("returns drafted text", func(t *testing.T) {
		svc, _ := newItemService(t, &MockItemStore{}, &MockDrafter{Text: "It glows."})
		text, err := svc.DraftDescription(ctx, userID, fields)
		require.NoError(t, err)
		assert.Equal(t, "It glows.", text)
	})

	t.Run("wraps drafter failure", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		svc, _ := newItemService(t, &MockItemStore{}, &MockDrafter{Err: boom})
		_, err := svc.DraftDescription(ctx, userID, fields)
		assert.ErrorIs(t, err, boom)
	})
}
