package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rarity is the tier an item belongs to. Front room stocking fills a fixed
// number of slots per tier.
type Rarity string

// Known rarity tiers, lowest to highest.
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityVeryRare  Rarity = "very-rare"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every tier in stocking order.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityVeryRare,
	RarityLegendary,
}

// IsValid reports whether r is one of the known tiers.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityVeryRare, RarityLegendary:
		return true
	default:
		return false
	}
}

// Label returns the display form of the tier, e.g. "Very Rare".
func (r Rarity) Label() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(r), "-", " "))
}

// ParseRarity normalizes s and returns the matching tier.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	r = Rarity(strings.ReplaceAll(string(r), " ", "-"))
	if !r.IsValid() {
		return "", NewValidationError("rarity", "must be one of common, uncommon, rare, very-rare, legendary", ErrInvalidRarity)
	}
	return r, nil
}
