//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/events"
	"github.com/phrazzld/magicshop-api/internal/platform/postgres"
	"github.com/phrazzld/magicshop-api/internal/store"
	"github.com/phrazzld/magicshop-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createShopkeeper(t *testing.T, db store.DBTX) *domain.User {
	t.Helper()
	u, err := domain.NewUser(time.Now().UnixNano(), "shopkeeper", "Shop Keeper", "")
	require.NoError(t, err)
	stored, err := postgres.NewPostgresUserStore(db, quietLogger()).UpsertGitHubUser(context.Background(), u)
	require.NoError(t, err)
	return stored
}

func TestIntegrationShopRoundTrip(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := createShopkeeper(t, tx)

		items := postgres.NewPostgresItemStore(tx, quietLogger())
		displays := postgres.NewPostgresDisplayStore(tx, quietLogger())
		settings := postgres.NewPostgresSettingsStore(tx, quietLogger())

		item := sampleItem(t, user.ID)
		require.NoError(t, items.Create(ctx, item))

		got, err := items.GetByID(ctx, user.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.Name, got.Name)

		_, err = items.GetByID(ctx, uuid.New(), item.ID)
		assert.ErrorIs(t, err, store.ErrItemNotFound, "items are scoped to their store")

		d, err := domain.NewDisplay(user.ID, domain.SurfaceFrontRoom, []uuid.UUID{item.ID})
		require.NoError(t, err)
		require.NoError(t, displays.Save(ctx, d))

		require.NoError(t, items.Delete(ctx, user.ID, item.ID))
		saved, err := displays.Get(ctx, user.ID, domain.SurfaceFrontRoom)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{item.ID}, saved.ItemIDs, "deletes leave display lists untouched")

		slug := "shop-" + uuid.NewString()[:8]
		s, err := domain.NewSettings(user.ID, "Cosmic Curiosities", slug)
		require.NoError(t, err)
		require.NoError(t, settings.Save(ctx, s))
		resolved, err := settings.ResolveSlug(ctx, slug)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved)

		// A unique violation aborts the transaction, so this stays last.
		other := createShopkeeper(t, tx)
		clash, err := domain.NewSettings(other.ID, "Copycat", slug)
		require.NoError(t, err)
		assert.ErrorIs(t, settings.Save(ctx, clash), store.ErrSlugTaken)
	})
}

func TestIntegrationListenerReceivesChanges(t *testing.T) {
	db := testdb.Open(t)
	user := createShopkeeper(t, db)

	emitter := events.NewInMemoryEventEmitter(quietLogger())
	received := make(chan *events.ChangeEvent, 8)
	emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, e *events.ChangeEvent) error {
		if e.StoreID == user.ID {
			received <- e
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = postgres.NewListener(testdb.URL(), emitter, quietLogger()).Run(ctx) }()
	time.Sleep(500 * time.Millisecond)

	d, err := domain.NewDisplay(user.ID, domain.SurfaceGachapon, nil)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresDisplayStore(db, quietLogger()).Save(context.Background(), d))

	select {
	case e := <-received:
		assert.Equal(t, events.KindGachapon, e.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event received")
	}
}
