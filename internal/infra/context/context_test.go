package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/bookshop/internal/domain"
	context_ "github.com/mkrupp/bookshop/internal/infra/context"
)

func TestIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := context_.UsernameFromContext(ctx)
	assert.False(t, ok)

	_, ok = context_.IdentityFromContext(context_.WithIdentity(ctx, domain.Identity{}))
	assert.False(t, ok, "empty username is not an identity")

	username, ok := context_.UsernameFromContext(context_.WithIdentity(ctx, domain.Identity{Username: "alice"}))
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := context_.TraceIDFromContext(ctx)
	assert.False(t, ok)

	traceID, ok := context_.TraceIDFromContext(context_.WithTraceID(ctx, "01j0abc"))
	assert.True(t, ok)
	assert.Equal(t, "01j0abc", traceID)
}
