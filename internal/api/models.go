package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
	"github.com/phrazzld/magicshop-api/internal/service"
	"github.com/phrazzld/magicshop-api/internal/service/auth"
)

// ItemRequest is the body of item create, edit and describe requests.
type ItemRequest struct {
	Name          string `json:"name"           validate:"required,max=200"`
	Category      string `json:"category"       validate:"max=100"`
	CategoryNotes string `json:"category_notes" validate:"max=500"`
	Rarity        string `json:"rarity"         validate:"required"`
	Description   string `json:"description"    validate:"max=10000"`
	Source        string `json:"source"         validate:"max=500"`
	Restrictions  string `json:"restrictions"   validate:"max=500"`
	Attunement    bool   `json:"attunement"`
	Stocked       bool   `json:"stocked"`
	Purchased     bool   `json:"purchased"`
	Gachapon      bool   `json:"gachapon"`
}

// Fields converts the request to domain fields, normalizing the rarity.
func (r ItemRequest) Fields() (domain.ItemFields, error) {
	rarity, err := domain.ParseRarity(r.Rarity)
	if err != nil {
		return domain.ItemFields{}, err
	}
	return domain.ItemFields{
		Name:          r.Name,
		Category:      r.Category,
		CategoryNotes: r.CategoryNotes,
		Rarity:        rarity,
		Description:   r.Description,
		Source:        r.Source,
		Restrictions:  r.Restrictions,
		Attunement:    r.Attunement,
		Stocked:       r.Stocked,
		Purchased:     r.Purchased,
		Gachapon:      r.Gachapon,
	}, nil
}

// ItemResponse is an item as the dashboard sees it.
type ItemResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	CategoryNotes string    `json:"category_notes,omitempty"`
	Rarity        string    `json:"rarity"`
	RarityLabel   string    `json:"rarity_label"`
	Description   string    `json:"description"`
	Source        string    `json:"source,omitempty"`
	Restrictions  string    `json:"restrictions,omitempty"`
	Attunement    bool      `json:"attunement"`
	Stocked       bool      `json:"stocked"`
	Purchased     bool      `json:"purchased"`
	Gachapon      bool      `json:"gachapon"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PurchaseRequest marks an item sold or back in stock.
type PurchaseRequest struct {
	Purchased *bool `json:"purchased" validate:"required"`
}

// DescribeResponse carries a drafted description for review.
type DescribeResponse struct {
	Description string `json:"description"`
}

// ImportResponse reports the items created by a catalog import.
type ImportResponse struct {
	Imported int            `json:"imported"`
	Items    []ItemResponse `json:"items"`
}

// DisplayRequest replaces the contents of a display surface.
type DisplayRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"max=500"`
}

// DisplayResponse lists the items on a display surface.
type DisplayResponse struct {
	Surface domain.Surface `json:"surface"`
	Items   []ItemResponse `json:"items"`
}

// SettingsRequest updates the shop settings.
type SettingsRequest struct {
	ShopName string `json:"shop_name" validate:"required,max=120"`
	Slug     string `json:"slug"      validate:"max=63"`
}

// SettingsResponse is the shop settings.
type SettingsResponse struct {
	ShopName string `json:"shop_name"`
	Slug     string `json:"slug,omitempty"`
}

// ShopStateResponse is everything the dashboard loads after sign-in.
type ShopStateResponse struct {
	StoreID   uuid.UUID         `json:"store_id"`
	Items     []ItemResponse    `json:"items"`
	FrontRoom []ItemResponse    `json:"frontroom"`
	Gachapon  []ItemResponse    `json:"gachapon"`
	Settings  *SettingsResponse `json:"settings"`
}

// PublicItemResponse is a storefront item. Pins and surface flags stay
// private to the shopkeeper.
type PublicItemResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	CategoryNotes   string    `json:"category_notes,omitempty"`
	Rarity          string    `json:"rarity"`
	RarityLabel     string    `json:"rarity_label"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	Source          string    `json:"source,omitempty"`
	Restrictions    string    `json:"restrictions,omitempty"`
	Attunement      bool      `json:"attunement"`
	Sold            bool      `json:"sold"`
}

// StorefrontResponse is the public view of a shop.
type StorefrontResponse struct {
	StoreID  uuid.UUID            `json:"store_id"`
	ShopName string               `json:"shop_name"`
	Slug     string               `json:"slug,omitempty"`
	Items    []PublicItemResponse `json:"items"`
}

// UserResponse is the signed-in shopkeeper.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// RefreshTokenRequest carries a refresh token to rotate or revoke.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse is a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    string        `json:"expires_at"`
	User         *UserResponse `json:"user,omitempty"`
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		CategoryNotes: item.CategoryNotes,
		Rarity:        string(item.Rarity),
		RarityLabel:   item.Rarity.Label(),
		Description:   item.Description,
		Source:        item.Source,
		Restrictions:  item.Restrictions,
		Attunement:    item.Attunement,
		Stocked:       item.Stocked,
		Purchased:     item.Purchased,
		Gachapon:      item.Gachapon,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// itemsToResponse never returns nil, so empty lists encode as [].
func itemsToResponse(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out
}

func settingsToResponse(s *domain.Settings) *SettingsResponse {
	if s == nil {
		return nil
	}
	return &SettingsResponse{ShopName: s.ShopName, Slug: s.Slug}
}

func shopStateToResponse(state *service.ShopState) ShopStateResponse {
	return ShopStateResponse{
		StoreID:   state.StoreID,
		Items:     itemsToResponse(state.Items),
		FrontRoom: itemsToResponse(state.FrontRoom),
		Gachapon:  itemsToResponse(state.Gachapon),
		Settings:  settingsToResponse(state.Settings),
	}
}

func storefrontToResponse(front *service.Storefront) StorefrontResponse {
	items := make([]PublicItemResponse, 0, len(front.Items))
	for _, it := range front.Items {
		items = append(items, PublicItemResponse{
			ID:              it.ID,
			Name:            it.Name,
			Category:        it.Category,
			CategoryNotes:   it.CategoryNotes,
			Rarity:          string(it.Rarity),
			RarityLabel:     it.Rarity.Label(),
			Description:     it.Description,
			DescriptionHTML: it.DescriptionHTML,
			Source:          it.Source,
			Restrictions:    it.Restrictions,
			Attunement:      it.Attunement,
			Sold:            it.Sold,
		})
	}
	return StorefrontResponse{
		StoreID:  front.StoreID,
		ShopName: front.ShopName,
		Slug:     front.Slug,
		Items:    items,
	}
}

func userToResponse(u *domain.User) *UserResponse {
	return &UserResponse{ID: u.ID, Login: u.Login, Name: u.Name, AvatarURL: u.AvatarURL}
}

func tokenPairToResponse(pair *auth.TokenPair, user *domain.User) TokenResponse {
	resp := TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if user != nil {
		resp.User = userToResponse(user)
	}
	return resp
}
