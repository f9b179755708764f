package stocking

import (
	"fmt"

	"github.com/phrazzld/magicshop-api/internal/domain"
)

// Params defines the slot counts used when stocking each surface.
type Params struct {
	// FrontRoom is the number of front room slots per rarity tier.
	FrontRoom map[domain.Rarity]int
	// Gachapon is the number of capsules in the machine, regardless of rarity.
	Gachapon int
}

// ParamsConfig allows overriding the default quotas. A nil field keeps the
// default; an explicit 0 empties that tier.
type ParamsConfig struct {
	Common    *int
	Uncommon  *int
	Rare      *int
	VeryRare  *int
	Legendary *int
	Gachapon  *int
}

// NewDefaultParams creates a new Params instance with default quotas.
func NewDefaultParams() *Params {
	return &Params{
		FrontRoom: map[domain.Rarity]int{
			domain.RarityCommon:    6,
			domain.RarityUncommon:  6,
			domain.RarityRare:      4,
			domain.RarityVeryRare:  2,
			domain.RarityLegendary: 1,
		},
		Gachapon: 20,
	}
}

// NewParams creates Params from defaults overridden by config.
func NewParams(config ParamsConfig) *Params {
	p := NewDefaultParams()
	override := func(r domain.Rarity, v *int) {
		if v != nil {
			p.FrontRoom[r] = *v
		}
	}
	override(domain.RarityCommon, config.Common)
	override(domain.RarityUncommon, config.Uncommon)
	override(domain.RarityRare, config.Rare)
	override(domain.RarityVeryRare, config.VeryRare)
	override(domain.RarityLegendary, config.Legendary)
	if config.Gachapon != nil {
		p.Gachapon = *config.Gachapon
	}
	return p
}

// Validate checks that every tier has a non-negative quota.
func (p *Params) Validate() error {
	for _, r := range domain.Rarities {
		q, ok := p.FrontRoom[r]
		if !ok {
			return fmt.Errorf("%w: missing front room quota for %s", ErrInvalidParams, r)
		}
		if q < 0 {
			return fmt.Errorf("%w: negative front room quota for %s", ErrInvalidParams, r)
		}
	}
	if p.Gachapon < 0 {
		return fmt.Errorf("%w: negative gachapon quota", ErrInvalidParams)
	}
	return nil
}
