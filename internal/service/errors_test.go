package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrNotSignedIn,
		ErrUnknownItem,
		ErrGachaponEmpty,
		ErrStoreNotFound,
		ErrDrafterUnavailable,
		ErrSlugTaken,
	}

	assert.Equal(t, "please log in again", ErrNotSignedIn.Error())
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

// The API layer maps errors by identity, so every wrap the services
// produce must keep its cause reachable.
func TestServiceErrorKeepsCause(t *testing.T) {
	tests := []struct {
		name    string
		err     *ServiceError
		cause   error
		message string
	}{
		{
			name:    "missing item",
			err:     NewServiceError("item", "get", store.ErrItemNotFound),
			cause:   store.ErrItemNotFound,
			message: "item service get operation failed: " + store.ErrItemNotFound.Error(),
		},
		{
			name:    "invalid item",
			err:     NewServiceError("item", "add", domain.ErrInvalidRarity),
			cause:   domain.ErrInvalidRarity,
			message: "item service add operation failed: " + domain.ErrInvalidRarity.Error(),
		},
		{
			name:    "display outside the store",
			err:     NewServiceError("display", "save", ErrUnknownItem),
			cause:   ErrUnknownItem,
			message: "display service save operation failed: item is not in this store",
		},
		{
			name:    "slug clash",
			err:     NewServiceError("settings", "save", ErrSlugTaken),
			cause:   ErrSlugTaken,
			message: "settings service save operation failed: slug is already taken",
		},
		{
			name:    "unknown storefront",
			err:     NewServiceError("storefront", "resolve", ErrStoreNotFound),
			cause:   ErrStoreNotFound,
			message: "storefront service resolve operation failed: store not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.cause)
			assert.Equal(t, tt.cause, errors.Unwrap(tt.err))

			var serviceErr *ServiceError
			require.ErrorAs(t, tt.err, &serviceErr)
			assert.Equal(t, tt.err.Service, serviceErr.Service)
		})
	}
}

func TestServiceErrorWithoutCause(t *testing.T) {
	err := NewServiceError("display", "randomize", nil)
	assert.Equal(t, "display service randomize operation failed", err.Error())
	assert.Nil(t, err.Unwrap())
}
