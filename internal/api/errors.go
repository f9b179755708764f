package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/catalog"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/platform/gemini"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/phrazzld/magicshop-api/internal/service/auth"
	"github.com/phrazzld/magicshop-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the errors themselves.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError
	var entryErr *catalog.EntryError

	switch {
	// Authentication errors
	case errors.Is(err, service.ErrNotSignedIn),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidState):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, service.ErrStoreNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrGachaponEmpty):
		return http.StatusConflict

	// Bad request errors
	case errors.As(err, &validationErr),
		errors.As(err, &entryErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, catalog.ErrEmptyCatalog),
		errors.Is(err, catalog.ErrMalformedCatalog),
		errors.Is(err, gemini.ErrEmptyItem):
		return http.StatusBadRequest

	// Drafting errors
	case errors.Is(err, gemini.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gemini.ErrInvalidResponse),
		errors.Is(err, auth.ErrProviderFailure):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrDrafterUnavailable),
		errors.Is(err, gemini.ErrTransientFailure):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that leaks no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var entryErr *catalog.EntryError

	switch {
	case errors.Is(err, service.ErrNotSignedIn):
		return "Please log in again"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrInvalidState):
		return "Sign-in request expired or was tampered with; please try again"
	case errors.Is(err, auth.ErrProviderFailure):
		return "GitHub sign-in failed"

	case errors.Is(err, domain.ErrUnauthorized):
		return "You cannot change this store"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"
	case errors.Is(err, service.ErrStoreNotFound),
		errors.Is(err, store.ErrSlugNotFound):
		return "Shop not found"

	case errors.Is(err, service.ErrSlugTaken):
		return "That shop URL is already taken"
	case errors.Is(err, service.ErrGachaponEmpty):
		return "The gachapon machine is empty"
	case errors.Is(err, service.ErrUnknownItem):
		return "Item is not in this store"
	case errors.Is(err, catalog.ErrEmptyCatalog):
		return "Catalog contains no items"
	case errors.Is(err, catalog.ErrMalformedCatalog):
		return "Catalog is not valid YAML"

	case errors.As(err, &entryErr):
		return fmt.Sprintf("Invalid catalog item %d", entryErr.Index+1)
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, gemini.ErrEmptyItem):
		return "Invalid name: required field"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid item data"

	case errors.Is(err, service.ErrDrafterUnavailable):
		return "Description drafting is not enabled"
	case errors.Is(err, gemini.ErrContentBlocked):
		return "The description was blocked by content filters"
	case errors.Is(err, gemini.ErrInvalidResponse),
		errors.Is(err, gemini.ErrTransientFailure):
		return "Description drafting failed; please try again"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// jsonFieldName converts a Go field name such as CategoryNotes into its
// JSON form, category_notes.
func jsonFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "dive", "uuid":
		return "invalid id"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err.
// message overrides the safe message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
