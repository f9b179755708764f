package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/domain/stocking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type displayFixture struct {
	svc      DisplayService
	items    *MockItemStore
	displays *memoryDisplayStore
	observer *recordingObserver
	storeID  uuid.UUID
	stock    []*domain.Item
}

func newDisplayFixture(t *testing.T, build func(storeID uuid.UUID) []*domain.Item) *displayFixture {
	t.Helper()
	f := &displayFixture{
		items:    &MockItemStore{},
		displays: newMemoryDisplayStore(),
		observer: &recordingObserver{},
		storeID:  uuid.New(),
	}
	f.stock = build(f.storeID)
	f.items.On("ListByStore", mock.Anything, f.storeID).Return(f.stock, nil)

	stock, err := stocking.NewServiceWithParams(nil, rand.New(rand.NewPCG(7, 11)))
	require.NoError(t, err)

	f.svc, err = NewDisplayService(f.items, f.displays, stock, f.observer, quietLogger())
	require.NoError(t, err)
	return f
}

func names(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}
	return out
}

func shopStock(storeID uuid.UUID) []*domain.Item {
	var items []*domain.Item
	for i := range 10 {
		items = append(items, newItem(storeID, "common "+string(rune('a'+i)), domain.RarityCommon))
	}
	items = append(items,
		newItem(storeID, "pinned rare", domain.RarityRare, pinned),
		newItem(storeID, "sold legendary", domain.RarityLegendary, purchased),
		newItem(storeID, "capsule one", domain.RarityCommon, gachapon),
		newItem(storeID, "capsule two", domain.RarityUncommon, gachapon),
		newItem(storeID, "capsule sold", domain.RarityUncommon, gachapon, purchased),
	)
	return items
}

func TestRandomizeFrontRoom(t *testing.T) {
	f := newDisplayFixture(t, shopStock)

	picked, err := f.svc.Randomize(context.Background(), f.storeID, domain.SurfaceFrontRoom)
	require.NoError(t, err)

	assert.Len(t, picked, 7, "6 commons plus the pinned rare")
	assert.Contains(t, names(picked), "pinned rare")
	for _, item := range picked {
		assert.False(t, item.Gachapon)
		assert.False(t, item.Purchased)
	}
	assert.IsNonDecreasing(t, names(picked))

	current, err := f.svc.Current(context.Background(), f.storeID, domain.SurfaceFrontRoom)
	require.NoError(t, err)
	assert.Empty(t, current, "randomize does not save")
}

func TestRandomizeGachapon(t *testing.T) {
	f := newDisplayFixture(t, shopStock)

	picked, err := f.svc.Randomize(context.Background(), f.storeID, domain.SurfaceGachapon)
	require.NoError(t, err)
	assert.Equal(t, []string{"capsule one", "capsule two"}, names(picked))
}

func TestSaveDisplay(t *testing.T) {
	ctx := context.Background()
	f := newDisplayFixture(t, shopStock)
	sold := f.stock[11]
	common := f.stock[0]

	t.Run("purchased items stay visible in the front room", func(t *testing.T) {
		saved, err := f.svc.Save(ctx, f.storeID, domain.SurfaceFrontRoom, []uuid.UUID{sold.ID, common.ID, common.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"common a", "sold legendary"}, names(saved))

		stored, err := f.displays.Get(ctx, f.storeID, domain.SurfaceFrontRoom)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{sold.ID, common.ID}, stored.ItemIDs, "duplicates collapse, order kept")
	})

	t.Run("items from another store are rejected", func(t *testing.T) {
		_, err := f.svc.Save(ctx, f.storeID, domain.SurfaceFrontRoom, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, ErrUnknownItem)
	})

	t.Run("unknown surface", func(t *testing.T) {
		_, err := f.svc.Save(ctx, f.storeID, domain.Surface("attic"), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidSurface)
	})

	t.Run("requires sign in", func(t *testing.T) {
		_, err := f.svc.Save(ctx, uuid.Nil, domain.SurfaceFrontRoom, nil)
		assert.ErrorIs(t, err, ErrNotSignedIn)
	})
}

func TestCurrentGachaponHidesPurchased(t *testing.T) {
	ctx := context.Background()
	f := newDisplayFixture(t, shopStock)
	ids := []uuid.UUID{f.stock[12].ID, f.stock[14].ID}

	_, err := f.svc.Save(ctx, f.storeID, domain.SurfaceGachapon, ids)
	require.NoError(t, err)

	current, err := f.svc.Current(ctx, f.storeID, domain.SurfaceGachapon)
	require.NoError(t, err)
	assert.Equal(t, []string{"capsule one"}, names(current))
}

func TestRestock(t *testing.T) {
	ctx := context.Background()
	f := newDisplayFixture(t, shopStock)

	restocked, err := f.svc.Restock(ctx, f.storeID, domain.SurfaceFrontRoom)
	require.NoError(t, err)

	current, err := f.svc.Current(ctx, f.storeID, domain.SurfaceFrontRoom)
	require.NoError(t, err)
	assert.Equal(t, names(restocked), names(current))
	assert.Equal(t, 1, f.observer.restocks["frontroom"])
}

func TestSpin(t *testing.T) {
	ctx := context.Background()

	t.Run("empty machine", func(t *testing.T) {
		f := newDisplayFixture(t, shopStock)
		_, err := f.svc.Spin(ctx, f.storeID)
		assert.ErrorIs(t, err, ErrGachaponEmpty)
	})

	t.Run("picks from current contents", func(t *testing.T) {
		f := newDisplayFixture(t, shopStock)
		_, err := f.svc.Restock(ctx, f.storeID, domain.SurfaceGachapon)
		require.NoError(t, err)

		for range 10 {
			item, err := f.svc.Spin(ctx, f.storeID)
			require.NoError(t, err)
			assert.Contains(t, []string{"capsule one", "capsule two"}, item.Name)
		}
	})
}
