// Package auth signs shopkeepers in through GitHub and issues the JWT
// access and refresh tokens the API accepts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// TokenPair is what a successful sign-in or refresh returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time
}

// Service coordinates the OAuth flow, users and token lifecycle.
type Service struct {
	provider IdentityProvider
	states   *StateSealer
	jwt      JWTService
	users    service.UserService
	tokens   store.TokenStore
	logger   *slog.Logger
}

// NewService creates an auth Service.
func NewService(
	provider IdentityProvider,
	states *StateSealer,
	jwtService JWTService,
	users service.UserService,
	tokens store.TokenStore,
	logger *slog.Logger,
) (*Service, error) {
	if provider == nil || states == nil || jwtService == nil || users == nil || tokens == nil {
		return nil, errors.New("auth service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		states:   states,
		jwt:      jwtService,
		users:    users,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// BeginLogin returns the provider URL to redirect to and the sealed state
// to store in a cookie until the callback.
func (s *Service) BeginLogin(ctx context.Context) (redirectURL, sealedState string, err error) {
	state, sealed, err := s.states.Issue()
	if err != nil {
		return "", "", err
	}
	return s.provider.AuthCodeURL(state), sealed, nil
}

// CompleteLogin verifies the callback state, exchanges the code and
// signs the user in, creating their store on first sign-in.
func (s *Service) CompleteLogin(
	ctx context.Context,
	code, state, sealedState string,
) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.states.Verify(state, sealedState); err != nil {
		log.Warn("rejected sign-in callback", slog.String("error", err.Error()))
		return nil, nil, err
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		log.Warn("identity provider exchange failed", slog.String("error", err.Error()))
		return nil, nil, err
	}

	user, err := s.users.SignIn(ctx, profile.GitHubID, profile.Login, profile.Name, profile.AvatarURL)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// new pair is issued. A revoked token cannot be refreshed again; when two
// refreshes race on one token, only the one whose revocation lands wins.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("revoke rotated refresh token: %w", err)
	}
	if !revoked {
		logger.FromContextOrDefault(ctx, s.logger).Warn("refresh token reused during rotation",
			slog.String("user_id", claims.UserID.String()))
		return nil, ErrRevokedToken
	}
	return s.issue(ctx, user)
}

// Logout revokes the refresh token, signing the session out. Expired
// tokens are already unusable and are accepted silently.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrExpiredRefreshToken) || errors.Is(err, ErrRevokedToken) {
			return nil
		}
		return err
	}

	if _, err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user signed out",
		slog.String("user_id", claims.UserID.String()))
	return nil
}

// Authenticate validates an access token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	return s.jwt.ValidateToken(ctx, accessToken)
}

// PurgeRevoked deletes revocation records whose tokens have expired anyway.
func (s *Service) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.tokens.PurgeExpired(ctx, time.Now().UTC())
}

func (s *Service) validateRefresh(ctx context.Context, refreshToken string) (*Claims, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check refresh token: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (s *Service) issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	claims, err := s.jwt.ValidateToken(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("validate issued token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt,
	}, nil
}
