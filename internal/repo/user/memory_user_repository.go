package user

import (
	"context"
	"sync"

	"github.com/mkrupp/bookshop/internal/domain"
)

// MemoryUserRepository implements Repository with a mutex-guarded map.
type MemoryUserRepository struct {
	users map[string]*domain.User
	m     sync.RWMutex
}

var _ Repository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]*domain.User),
	}
}

// CreateUser implements Repository.CreateUser.
func (r *MemoryUserRepository) CreateUser(_ context.Context, user *domain.User) error {
	r.m.Lock()
	defer r.m.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return domain.ErrUserAlreadyExists
	}

	r.users[user.Username] = cloneUser(user)

	return nil
}

// GetUserByUsername implements Repository.GetUserByUsername.
func (r *MemoryUserRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, bool, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, false, nil
	}

	return cloneUser(user), true, nil
}

// UpdateSigningSecret implements Repository.UpdateSigningSecret.
func (r *MemoryUserRepository) UpdateSigningSecret(_ context.Context, username string, secret []byte) error {
	r.m.Lock()
	defer r.m.Unlock()

	user, exists := r.users[username]
	if !exists {
		return domain.ErrUserNotFound
	}

	user.SigningSecret = append([]byte(nil), secret...)

	return nil
}

// Close implements Repository.Close.
func (r *MemoryUserRepository) Close() error {
	return nil
}
