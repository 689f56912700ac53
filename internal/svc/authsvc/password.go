package authsvc

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/bookshop/internal/domain"
)

// ErrInvalidPasswordCost is returned for a bcrypt cost outside bcrypt's bounds.
var ErrInvalidPasswordCost = errors.New("invalid password cost")

// passwordHasher stores and compares password credentials.
type passwordHasher struct {
	cost  int
	dummy []byte // compared against for unknown users
}

func newPasswordHasher(cost int) (*passwordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPasswordCost, cost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not a real password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &passwordHasher{cost: cost, dummy: dummy}, nil
}

func (h *passwordHasher) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errors.Join(domain.ErrValidation, err)
	} else if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return hash, nil
}

// Compare returns nil if password matches hash and ErrInvalidCredentials otherwise.
// A nil hash is compared against a dummy so unknown users cost the same time.
func (h *passwordHasher) Compare(hash []byte, password string) error {
	if hash == nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))

		return domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrInvalidCredentials
		}

		return fmt.Errorf("compare password: %w", err)
	}

	return nil
}
