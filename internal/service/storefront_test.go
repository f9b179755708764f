package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorefrontFixture(t *testing.T) (StorefrontService, *displayFixture) {
	t.Helper()
	f := newDisplayFixture(t, func(storeID uuid.UUID) []*domain.Item {
		return []*domain.Item{
			newItem(storeID, "Bag of Holding", domain.RarityUncommon, func(fi *domain.ItemFields) {
				fi.Description = "Larger *inside*."
			}),
			newItem(storeID, "Sold Sword", domain.RarityRare, purchased, pinned),
		}
	})
	_, err := f.svc.Save(context.Background(), f.storeID, domain.SurfaceFrontRoom, domain.IDs(f.stock))
	require.NoError(t, err)

	users := &MockUserStore{GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id == f.storeID {
			return &domain.User{ID: id}, nil
		}
		return nil, store.ErrUserNotFound
	}}
	settings := &MockSettingsStore{
		GetFn: func(ctx context.Context, id uuid.UUID) (*domain.Settings, error) {
			return &domain.Settings{StoreID: id, ShopName: "Cosmic Curiosities", Slug: "cosmic"}, nil
		},
		ResolveSlugFn: func(ctx context.Context, slug string) (uuid.UUID, error) {
			if slug == "cosmic" {
				return f.storeID, nil
			}
			return uuid.Nil, store.ErrSlugNotFound
		},
	}

	svc, err := NewStorefrontService(users, settings, f.svc, stubRenderer{},
		map[string]uuid.UUID{"Cosmic-Curiosities": f.storeID}, quietLogger())
	require.NoError(t, err)
	return svc, f
}

func TestStorefront(t *testing.T) {
	ctx := context.Background()
	svc, f := newStorefrontFixture(t)

	for _, ref := range []string{f.storeID.String(), "cosmic", "cosmic-curiosities", " COSMIC "} {
		t.Run(ref, func(t *testing.T) {
			front, err := svc.Storefront(ctx, ref)
			require.NoError(t, err)
			assert.Equal(t, f.storeID, front.StoreID)
			assert.Equal(t, "Cosmic Curiosities", front.ShopName)
			require.Len(t, front.Items, 2)
			assert.Equal(t, "<p>Larger *inside*.</p>\n", front.Items[0].DescriptionHTML)
			assert.True(t, front.Items[1].Sold)
		})
	}

	for _, ref := range []string{"", uuid.NewString(), "unknown-shop", "Not/A/Slug"} {
		_, err := svc.Storefront(ctx, ref)
		assert.ErrorIs(t, err, ErrStoreNotFound, "ref %q", ref)
	}
}
