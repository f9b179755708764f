package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// UserService manages shopkeeper accounts.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// SignIn records a provider identity, creating the user (and with it
	// their store) on first sign-in and refreshing the profile afterwards.
	SignIn(ctx context.Context, githubID int64, login, name, avatarURL string) (*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users store.UserStore, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, NewServiceError("user", "get", err)
	}
	return user, nil
}

func (s *userServiceImpl) SignIn(
	ctx context.Context,
	githubID int64,
	login, name, avatarURL string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate, err := domain.NewUser(githubID, login, name, avatarURL)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpsertGitHubUser(ctx, candidate)
	if err != nil {
		log.Error("failed to upsert user",
			slog.String("error", err.Error()),
			slog.String("login", login))
		return nil, NewServiceError("user", "sign_in", err)
	}

	log.Info("user signed in",
		slog.String("user_id", user.ID.String()),
		slog.String("login", user.Login))
	return user, nil
}
