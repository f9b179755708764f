package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/config"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/phrazzld/magicshop-api/internal/service/auth"
)

// StateCookieName holds the sealed OAuth state between the login redirect
// and the callback.
const StateCookieName = "magicshop_oauth_state"

const stateCookiePath = "/api/auth/github"

// AuthFlow is the sign-in lifecycle implemented by auth.Service.
type AuthFlow interface {
	BeginLogin(ctx context.Context) (redirectURL, sealedState string, err error)
	CompleteLogin(ctx context.Context, code, state, sealedState string) (*domain.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

var _ AuthFlow = (*auth.Service)(nil)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	flow   AuthFlow
	users  service.UserService
	config config.AuthConfig
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	flow AuthFlow,
	users service.UserService,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		flow:   flow,
		users:  users,
		config: cfg,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles GET /api/auth/github/login by redirecting to GitHub.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	redirectURL, sealed, err := h.flow.BeginLogin(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start sign-in")
		return
	}

	http.SetCookie(w, h.stateCookie(sealed, int(auth.StateLifetime/time.Second)))
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Callback handles GET /api/auth/github/callback. On success the token
// pair is returned as JSON, or handed to the configured frontend in the
// URL fragment.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	query := r.URL.Query()

	// The state is single use whatever the outcome.
	http.SetCookie(w, h.stateCookie("", -1))

	if providerErr := query.Get("error"); providerErr != "" {
		log.Info("sign-in declined at provider", slog.String("provider_error", providerErr))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "GitHub sign-in was cancelled")
		return
	}

	sealed := ""
	if cookie, err := r.Cookie(StateCookieName); err == nil {
		sealed = cookie.Value
	}

	user, pair, err := h.flow.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"), sealed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("user signed in", slog.String("user_id", user.ID.String()))

	if h.config.SuccessRedirectURL != "" {
		fragment := url.Values{}
		fragment.Set("access_token", pair.AccessToken)
		fragment.Set("refresh_token", pair.RefreshToken)
		fragment.Set("expires_at", pair.ExpiresAt.UTC().Format(time.RFC3339))
		http.Redirect(w, r, h.config.SuccessRedirectURL+"#"+fragment.Encode(), http.StatusFound)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairToResponse(pair, user))
}

// RefreshToken handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.flow.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tokenPairToResponse(pair, nil))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.flow.Logout(r.Context(), req.RefreshToken); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

func (h *AuthHandler) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     stateCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
