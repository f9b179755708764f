// Package shared holds the request context keys, body decoding and JSON
// response helpers used by the api package and its middleware.
package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of request context keys set by the API.
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the signed-in user's ID,
	// which is also their store ID.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// NewTraceID returns a random 32 character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithTraceID stores traceID in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithUserID stores the authenticated user's ID in ctx.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserID returns the authenticated user's ID. It reports false when
// the request is not authenticated.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
