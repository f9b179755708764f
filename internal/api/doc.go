// Package api exposes the shop over HTTP: JSON handlers for the dashboard,
// the public storefront, GitHub sign-in and the realtime stream. Handlers
// translate requests into service calls and map service errors to status
// codes and safe messages.
package api
