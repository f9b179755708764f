package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	id := NewTraceID()
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, NewTraceID())

	ctx := WithTraceID(context.Background(), id)
	assert.Equal(t, id, GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestUserID(t *testing.T) {
	userID := uuid.New()
	got, ok := GetUserID(WithUserID(context.Background(), userID))
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	_, ok = GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)
}
