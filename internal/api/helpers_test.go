package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// signedIn stands in for the auth middleware.
func signedIn(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newTestRouter(userID uuid.UUID, mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(signedIn(userID))
	mount(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func testItem(storeID uuid.UUID, name string, rarity domain.Rarity) *domain.Item {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Item{
		ID:          uuid.New(),
		StoreID:     storeID,
		Name:        name,
		Category:    "Wondrous Item",
		Rarity:      rarity,
		Description: "It glows.",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
