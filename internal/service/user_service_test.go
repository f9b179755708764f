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

func TestUserServiceSignIn(t *testing.T) {
	ctx := context.Background()
	existing := uuid.New()
	svc, err := NewUserService(&MockUserStore{
		UpsertGitHubUserFn: func(ctx context.Context, u *domain.User) (*domain.User, error) {
			u.ID = existing
			return u, nil
		},
	}, quietLogger())
	require.NoError(t, err)

	user, err := svc.SignIn(ctx, 42, "shopkeeper", "Shop Keeper", "")
	require.NoError(t, err)
	assert.Equal(t, existing, user.ID, "the stored id wins for returning users")

	_, err = svc.SignIn(ctx, 0, "nobody", "", "")
	assert.ErrorIs(t, err, domain.ErrEmptyGitHubID)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
