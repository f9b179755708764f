package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field length limits for items.
const (
	MaxItemNameLength        = 200
	MaxItemCategoryLength    = 100
	MaxItemDescriptionLength = 10000
	MaxItemShortTextLength   = 500
)

// Item is a single piece of shop inventory. Items belong to exactly one
// store and to exactly one display surface: the gachapon machine when
// Gachapon is set, otherwise the front room.
type Item struct {
	ID            uuid.UUID `json:"id"`
	StoreID       uuid.UUID `json:"store_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	CategoryNotes string    `json:"category_notes,omitempty"`
	Rarity        Rarity    `json:"rarity"`
	Description   string    `json:"description"`
	Source        string    `json:"source,omitempty"`
	Restrictions  string    `json:"restrictions,omitempty"`
	Attunement    bool      `json:"attunement"`
	// Stocked pins the item: it is always included when its surface is
	// randomized.
	Stocked   bool      `json:"stocked"`
	Purchased bool      `json:"purchased"`
	Gachapon  bool      `json:"gachapon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemFields carries the user-editable fields of an item.
type ItemFields struct {
	Name          string
	Category      string
	CategoryNotes string
	Rarity        Rarity
	Description   string
	Source        string
	Restrictions  string
	Attunement    bool
	Stocked       bool
	Purchased     bool
	Gachapon      bool
}

// NewItem creates a new Item in the given store with a fresh ID and
// timestamps. Returns an error if validation fails.
func NewItem(storeID uuid.UUID, fields ItemFields) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:        uuid.New(),
		StoreID:   storeID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.apply(fields)

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Replace overwrites every editable field and bumps UpdatedAt.
// The item is left unchanged if the new fields are invalid.
func (i *Item) Replace(fields ItemFields) error {
	next := *i
	next.apply(fields)
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*i = next
	return nil
}

func (i *Item) apply(f ItemFields) {
	i.Name = strings.TrimSpace(f.Name)
	i.Category = strings.TrimSpace(f.Category)
	i.CategoryNotes = strings.TrimSpace(f.CategoryNotes)
	i.Rarity = f.Rarity
	i.Description = f.Description
	i.Source = strings.TrimSpace(f.Source)
	i.Restrictions = strings.TrimSpace(f.Restrictions)
	i.Attunement = f.Attunement
	i.Stocked = f.Stocked
	i.Purchased = f.Purchased
	i.Gachapon = f.Gachapon
}

// Fields returns the editable fields of the item.
func (i *Item) Fields() ItemFields {
	return ItemFields{
		Name:          i.Name,
		Category:      i.Category,
		CategoryNotes: i.CategoryNotes,
		Rarity:        i.Rarity,
		Description:   i.Description,
		Source:        i.Source,
		Restrictions:  i.Restrictions,
		Attunement:    i.Attunement,
		Stocked:       i.Stocked,
		Purchased:     i.Purchased,
		Gachapon:      i.Gachapon,
	}
}

// Validate checks if the Item has valid data.
// Returns a *ValidationError for the first invalid field.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if i.StoreID == uuid.Nil {
		return NewValidationError("store_id", "cannot be empty", ErrInvalidID)
	}
	if i.Name == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if len(i.Name) > MaxItemNameLength {
		return NewValidationError("name", "is too long", nil)
	}
	if i.Category == "" {
		return NewValidationError("category", "cannot be empty", nil)
	}
	if len(i.Category) > MaxItemCategoryLength {
		return NewValidationError("category", "is too long", nil)
	}
	if !i.Rarity.IsValid() {
		return NewValidationError("rarity", "is not a known rarity", ErrInvalidRarity)
	}
	if len(i.Description) > MaxItemDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}
	if len(i.CategoryNotes) > MaxItemShortTextLength {
		return NewValidationError("category_notes", "is too long", nil)
	}
	if len(i.Source) > MaxItemShortTextLength {
		return NewValidationError("source", "is too long", nil)
	}
	if len(i.Restrictions) > MaxItemShortTextLength {
		return NewValidationError("restrictions", "is too long", nil)
	}
	return nil
}

// MarkPurchased sets the purchased flag and bumps UpdatedAt.
func (i *Item) MarkPurchased(purchased bool) {
	i.Purchased = purchased
	i.UpdatedAt = time.Now().UTC()
}
