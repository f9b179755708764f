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

func TestSaveSettings(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name     string
		saveErr  error
		shopName string
		slug     string
		wantErr  error
	}{
		{name: "saves", shopName: "Cosmic Curiosities", slug: "Cosmic-Curiosities"},
		{name: "slug taken", shopName: "Copycat", slug: "cosmic-curiosities", saveErr: store.ErrSlugTaken, wantErr: ErrSlugTaken},
		{name: "bad slug", shopName: "Shop", slug: "not a slug", wantErr: domain.ErrInvalidSlug},
		{name: "empty name", shopName: " ", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *domain.Settings
			svc, err := NewSettingsService(&MockSettingsStore{
				SaveFn: func(ctx context.Context, s *domain.Settings) error {
					saved = s
					return tt.saveErr
				},
			}, quietLogger())
			require.NoError(t, err)

			got, err := svc.SaveSettings(ctx, userID, tt.shopName, tt.slug)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "cosmic-curiosities", got.Slug)
			assert.Same(t, got, saved)
		})
	}

	svc, err := NewSettingsService(&MockSettingsStore{}, nil)
	require.NoError(t, err)
	_, err = svc.SaveSettings(ctx, uuid.Nil, "Shop", "")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	settings, err := svc.GetSettings(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultShopName, settings.ShopName)
}
