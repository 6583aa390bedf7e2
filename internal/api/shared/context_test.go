package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.Empty(t, GetTraceID(ctx), "original context must be unchanged")

	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)

	user := &domain.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com"}
	got, ok := UserFromContext(WithUser(context.Background(), user))
	require.True(t, ok)
	assert.Same(t, user, got)
}
