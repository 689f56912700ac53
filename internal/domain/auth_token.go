package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoAuthToken is returned when an authentication token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is the parent of every token verification failure.
	ErrInvalidAuthToken = errors.New("invalid auth token")

	// ErrMalformedToken is returned when the token cannot be parsed or names no user.
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrInvalidAuthToken)
	// ErrTokenUnknownUser is returned when the token names a user that is not registered.
	ErrTokenUnknownUser = fmt.Errorf("%w: token references unknown user", ErrInvalidAuthToken)
	// ErrBadSignature is returned when the signature does not match the user's signing secret.
	ErrBadSignature = fmt.Errorf("%w: bad token signature", ErrInvalidAuthToken)
	// ErrTokenExpired is returned when the token is past its expiry time.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidAuthToken)
)

// TokenClaims is the verified payload of a bearer token.
type TokenClaims struct {
	ID        string    // Random token identifier
	Username  string    // Identifier of the authenticated user
	IssuedAt  time.Time // When the token was created
	ExpiresAt time.Time // When the token stops being accepted
}

// Identity is what the authorizing middleware attaches to a request.
type Identity struct {
	Username string
}

// AuthTokenResponse represents a response containing an authentication token.
type AuthTokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
