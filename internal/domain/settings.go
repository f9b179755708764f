package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultShopName is used when a store has never saved its settings.
const DefaultShopName = "Fantasy Costco"

// MaxShopNameLength bounds the shop name.
const MaxShopNameLength = 120

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Settings holds the per-store configuration shown on the storefront.
type Settings struct {
	StoreID  uuid.UUID `json:"store_id"`
	ShopName string    `json:"shop_name"`
	// Slug is an optional public alias for the storefront URL.
	Slug      string    `json:"slug,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a store has before it saves any.
func DefaultSettings(storeID uuid.UUID) *Settings {
	return &Settings{
		StoreID:  storeID,
		ShopName: DefaultShopName,
	}
}

// NewSettings normalizes and validates settings for the given store.
func NewSettings(storeID uuid.UUID, shopName, slug string) (*Settings, error) {
	s := &Settings{
		StoreID:   storeID,
		ShopName:  strings.TrimSpace(shopName),
		Slug:      strings.ToLower(strings.TrimSpace(slug)),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the Settings have valid data.
func (s *Settings) Validate() error {
	if s.StoreID == uuid.Nil {
		return NewValidationError("store_id", "cannot be empty", ErrInvalidID)
	}
	if s.ShopName == "" {
		return NewValidationError("shop_name", "cannot be empty", nil)
	}
	if len(s.ShopName) > MaxShopNameLength {
		return NewValidationError("shop_name", "is too long", nil)
	}
	if s.Slug != "" && !IsValidSlug(s.Slug) {
		return NewValidationError("slug", "must be lowercase letters, digits and single hyphens", ErrInvalidSlug)
	}
	return nil
}

// IsValidSlug reports whether s is a lowercase kebab-case slug of at most
// 64 characters.
func IsValidSlug(s string) bool {
	return len(s) <= 64 && slugPattern.MatchString(s)
}
