package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// The functions in this file derive the views the shop screens read from the
// full item list. They never modify their input and always return a new
// slice, empty rather than nil.

// Filter returns the items for which keep returns true.
func Filter(items []*Item, keep func(*Item) bool) []*Item {
	out := make([]*Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Unpurchased returns items still for sale.
func Unpurchased(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return !i.Purchased })
}

// AllFrontRoom returns every front room item, sold or not.
func AllFrontRoom(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return !i.Gachapon })
}

// FrontRoomCandidates returns the unsold items that can be stocked in the
// front room.
func FrontRoomCandidates(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return !i.Purchased && !i.Gachapon })
}

// GachaponCandidates returns the unsold items that can be loaded into the
// gachapon machine.
func GachaponCandidates(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return !i.Purchased && i.Gachapon })
}

// Pinned returns the items flagged as always stocked.
func Pinned(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return i.Stocked })
}

// Unpinned returns the items eligible for random sampling.
func Unpinned(items []*Item) []*Item {
	return Filter(items, func(i *Item) bool { return !i.Stocked })
}

// OfRarity returns the items of tier r.
func OfRarity(items []*Item, r Rarity) []*Item {
	return Filter(items, func(i *Item) bool { return i.Rarity == r })
}

// Select returns the items whose ID appears in ids, in the order of items.
// IDs with no matching item are ignored.
func Select(items []*Item, ids []uuid.UUID) []*Item {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return Filter(items, func(i *Item) bool {
		_, ok := want[i.ID]
		return ok
	})
}

// CurrentFrontRoom projects the saved front room IDs onto the item list.
func CurrentFrontRoom(items []*Item, ids []uuid.UUID) []*Item {
	return Select(AllFrontRoom(items), ids)
}

// CurrentGachapon projects the saved gachapon IDs onto the item list.
func CurrentGachapon(items []*Item, ids []uuid.UUID) []*Item {
	return Select(GachaponCandidates(items), ids)
}

// IDs returns the IDs of items in order.
func IDs(items []*Item) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

// SortByName sorts items in place by case-insensitive name, then ID.
func SortByName(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		na, nb := strings.ToLower(items[a].Name), strings.ToLower(items[b].Name)
		if na != nb {
			return na < nb
		}
		return items[a].ID.String() < items[b].ID.String()
	})
}
