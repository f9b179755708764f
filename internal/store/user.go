package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// UserStore defines the interface for shopkeeper persistence.
type UserStore interface {
	// UpsertGitHubUser inserts the user, or refreshes the profile fields of
	// the existing user with the same GitHub ID. The stored user is returned;
	// its ID is stable across sign-ins.
	UpsertGitHubUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TokenStore records revoked refresh tokens so a signed-out session
// cannot be refreshed.
type TokenStore interface {
	// Revoke marks the token ID as revoked until expiresAt. It reports
	// whether this call did the revoking; revoking an already revoked
	// token returns false and no error.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error)

	// IsRevoked reports whether the token ID was revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired removes revocations whose tokens have expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
