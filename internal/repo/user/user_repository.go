package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/bookshop/internal/domain"
)

// ErrUnknownBackend is returned by NewRepository for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown user repository backend")

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Repository defines the interface for user storage.
//
// Implementations must make CreateUser atomic with its uniqueness check so that two
// concurrent registrations of the same username cannot both succeed.
type Repository interface {
	// CreateUser adds a new user.
	// Returns ErrUserAlreadyExists if the username is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByUsername retrieves a user by their exact username.
	// Returns false and no error if the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)

	// UpdateSigningSecret replaces the user's signing secret.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateSigningSecret(ctx context.Context, username string, secret []byte) error

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)

// RepositoryConfig selects and configures the user storage backend.
type RepositoryConfig struct {
	// Backend is "memory" or "sqlite"
	Backend string `env:"BACKEND" default:"memory"`

	SQLite SQLiteUserRepositoryConfig `envPrefix:"SQLITE_"`
}

// NewRepositoryFactory returns a factory for the configured backend.
func NewRepositoryFactory(cfg RepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		switch cfg.Backend {
		case "", BackendMemory:
			return NewMemoryUserRepository(), nil
		case BackendSQLite:
			return NewSQLiteUserRepository(cfg.SQLite)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
		}
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.SigningSecret = append([]byte(nil), u.SigningSecret...)

	return &c
}
