package context

import (
	"context"

	"github.com/mkrupp/bookshop/internal/domain"
)

const contextKeyIdentity = contextKey("identity")

// IdentityFromContext extracts the authenticated identity from the context.
// Returns false if the request did not pass the authorizing middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(contextKeyIdentity).(domain.Identity)

	return identity, ok && identity.Username != ""
}

// UsernameFromContext is a shorthand for IdentityFromContext(ctx).Username.
func UsernameFromContext(ctx context.Context) (string, bool) {
	identity, ok := IdentityFromContext(ctx)

	return identity.Username, ok
}

// WithIdentity returns a context carrying the authenticated identity for the rest of the request.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, identity)
}
