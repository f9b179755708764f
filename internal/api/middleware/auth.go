package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/redact"
	"github.com/phrazzld/magicshop-api/internal/service/auth"
)

// AccessTokenQueryParam carries the access token on websocket upgrades,
// where browsers cannot set an Authorization header.
const AccessTokenQueryParam = "access_token"

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the Bearer token in the Authorization header and
// adds the user ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.handler(next, false)
}

// AuthenticateQuery is Authenticate that also accepts the token in the
// access_token query parameter.
func (m *AuthMiddleware) AuthenticateQuery(next http.Handler) http.Handler {
	return m.handler(next, true)
}

func (m *AuthMiddleware) handler(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, msg := bearerToken(r)
		if token == "" && allowQuery {
			token = r.URL.Query().Get(AccessTokenQueryParam)
		}
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, msg)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token",
					slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(
			slog.String("user_id", claims.UserID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken returns the token from the Authorization header, or an
// empty token and the message to reject the request with.
func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "Authorization header required"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", "Invalid authorization format"
	}
	return token, ""
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.GetUserID(r.Context())
}
