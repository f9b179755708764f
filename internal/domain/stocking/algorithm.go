package stocking

import (
	"math/rand/v2"

	"github.com/phrazzld/magicshop-api/internal/domain"
)

// Shuffler permutes n elements in place by calling swap, with the same
// contract as rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// NewShuffler returns a Shuffler backed by r.
func NewShuffler(r *rand.Rand) Shuffler {
	return r.Shuffle
}

// NewSeededShuffler returns a deterministic Shuffler. Intended for tests.
func NewSeededShuffler(seed uint64) Shuffler {
	return NewShuffler(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Fill returns every pinned item plus a random sample of eligible items,
// sized so the result holds quota items when enough are available. When
// pinned alone exceeds quota, all pinned items are kept and nothing is
// sampled. The result is sorted by name. Neither input slice is modified.
func Fill(pinned, eligible []*domain.Item, quota int, shuffle Shuffler) []*domain.Item {
	take := max(0, quota-len(pinned))
	take = min(take, len(eligible))

	out := make([]*domain.Item, 0, len(pinned)+take)
	out = append(out, pinned...)

	if take > 0 {
		pool := make([]*domain.Item, len(eligible))
		copy(pool, eligible)
		shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		out = append(out, pool[:take]...)
	}

	domain.SortByName(out)
	return out
}

// fillTier applies Fill to the candidates of a single rarity tier.
func fillTier(candidates []*domain.Item, r domain.Rarity, quota int, shuffle Shuffler) []*domain.Item {
	tier := domain.OfRarity(candidates, r)
	return Fill(domain.Pinned(tier), domain.Unpinned(tier), quota, shuffle)
}
