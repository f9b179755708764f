// Package service contains the shop's use cases. It orchestrates domain
// objects, the stocking algorithm and the stores defined in internal/store.
//
// Key components:
//
// 1. Service Interfaces:
//   - ItemService manages a shopkeeper's inventory, catalog import and
//     description drafting
//   - DisplayService stocks, saves and spins the front room and gachapon
//   - SettingsService and UserService hold shop identity and sign-in
//   - ShopService and StorefrontService assemble the owner's and the
//     visitor's views of a shop
//
// 2. Store Scoping:
//   - Every mutating operation takes the signed-in user's ID, which is
//     also the store ID. ErrNotSignedIn rejects the nil UUID.
//   - Reads take a store ID and never cross into another store.
//
// 3. Error Handling:
//   - Store errors are wrapped in ServiceError, keeping errors.Is
//     working for the API layer's status mapping
//
// Services depend on store interfaces only, never on a specific database.
package service
