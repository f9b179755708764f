package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyGitHubID = errors.New("github ID cannot be empty")
	ErrEmptyLogin    = errors.New("login cannot be empty")
)

// User is a shopkeeper signed in through the external identity provider.
// A user owns exactly one store, and the store is keyed by the user's ID.
type User struct {
	ID        uuid.UUID `json:"id"`
	GitHubID  int64     `json:"github_id"`
	Login     string    `json:"login"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a User for a provider identity with a fresh ID.
// Returns an error if validation fails.
func NewUser(githubID int64, login, name, avatarURL string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		GitHubID:  githubID,
		Login:     login,
		Name:      name,
		AvatarURL: avatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.GitHubID == 0 {
		return ErrEmptyGitHubID
	}
	if u.Login == "" {
		return ErrEmptyLogin
	}
	return nil
}

// StoreID returns the ID of the store the user owns.
func (u *User) StoreID() uuid.UUID {
	return u.ID
}
