package authsvc

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// DefaultSecretSize is the size of a per-user signing secret in bytes.
const DefaultSecretSize = 32

// MinSecretSize is the smallest accepted signing secret.
const MinSecretSize = 16

// ErrSecretTooShort is returned for a configured secret size below MinSecretSize.
var ErrSecretTooShort = errors.New("signing secret too short")

// GenerateSigningSecret returns size random bytes for use as an HMAC key.
func GenerateSigningSecret(size int) ([]byte, error) {
	if size < MinSecretSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSecretTooShort, size)
	}

	secret := make([]byte, size)

	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}

	return secret, nil
}
