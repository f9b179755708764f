// Package domain contains the core business entities of the magic shop:
// inventory items, their rarity tiers, per-store settings, shopkeepers and
// the display surfaces items are stocked into. It also holds the pure
// projections the shop screens are built from. Nothing here knows about
// HTTP or storage.
package domain
