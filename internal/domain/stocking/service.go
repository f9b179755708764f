// Package stocking picks which items are displayed on the front room and in
// the gachapon machine. Each surface is filled to a fixed quota: pinned items
// are always included and the remaining slots are sampled at random from the
// unpinned candidates.
package stocking

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/magicshop-api/internal/domain"
)

// Common errors
var (
	ErrInvalidParams = errors.New("invalid stocking parameters")
)

// Service defines the interface for stocking operations.
type Service interface {
	// FrontRoom picks front room items tier by tier, in rarity order, and
	// returns their IDs.
	FrontRoom(items []*domain.Item) []uuid.UUID

	// Gachapon picks gachapon items and returns their IDs.
	Gachapon(items []*domain.Item) []uuid.UUID

	// Pick returns one random item from items, or nil when items is empty.
	Pick(items []*domain.Item) *domain.Item
}

type defaultService struct {
	params *Params

	// rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDefaultService creates a stocking service with default quotas and a
// randomly seeded source.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewServiceWithParams creates a stocking service with custom quotas and
// random source. A nil rng is replaced by a randomly seeded one.
func NewServiceWithParams(params *Params, rng *rand.Rand) (Service, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &defaultService{params: params, rng: rng}, nil
}

func (s *defaultService) FrontRoom(items []*domain.Item) []uuid.UUID {
	candidates := domain.FrontRoomCandidates(items)

	s.mu.Lock()
	defer s.mu.Unlock()

	picked := make([]*domain.Item, 0)
	for _, r := range domain.Rarities {
		picked = append(picked, fillTier(candidates, r, s.params.FrontRoom[r], s.rng.Shuffle)...)
	}
	return domain.IDs(picked)
}

func (s *defaultService) Gachapon(items []*domain.Item) []uuid.UUID {
	candidates := domain.GachaponCandidates(items)

	s.mu.Lock()
	defer s.mu.Unlock()

	picked := Fill(domain.Pinned(candidates), domain.Unpinned(candidates), s.params.Gachapon, s.rng.Shuffle)
	return domain.IDs(picked)
}

func (s *defaultService) Pick(items []*domain.Item) *domain.Item {
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return items[s.rng.IntN(len(items))]
}
