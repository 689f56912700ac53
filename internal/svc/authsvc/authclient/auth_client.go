// Package authclient declares what request-boundary code needs from the auth service.
package authclient

import (
	"context"

	"github.com/mkrupp/bookshop/internal/domain"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	// Verify returns the token's claims, or an error wrapping one of
	// domain.ErrMalformedToken, domain.ErrTokenUnknownUser, domain.ErrBadSignature
	// or domain.ErrTokenExpired.
	Verify(ctx context.Context, token string) (domain.TokenClaims, error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, token string) (domain.TokenClaims, error)

// Verify implements TokenVerifier.
func (f TokenVerifierFunc) Verify(ctx context.Context, token string) (domain.TokenClaims, error) {
	return f(ctx, token)
}
