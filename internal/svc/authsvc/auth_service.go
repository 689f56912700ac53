package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	"github.com/mkrupp/bookshop/internal/repo/user"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// TokenDuration is the validity of issued tokens
	TokenDuration time.Duration `env:"TOKEN_DURATION" default:"1h"`

	// PasswordCost is the bcrypt cost factor
	PasswordCost int `env:"PASSWORD_COST" default:"10"`

	// SecretSize is the length of per-user signing secrets in bytes
	SecretSize int `env:"SECRET_SIZE" default:"32"`
}

// AuthService provides user registration, authentication and token handling.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Tokens   *TokenService
	Log      logging.Logger

	passwords *passwordHasher
	metrics   *observability.Metrics
	now       func() time.Time
}

var _ SecretSource = (*AuthService)(nil)

// NewAuthService creates a new AuthService with the given user repository factory and configuration.
// Returns an error if the configuration is invalid or the user repository cannot be created.
func NewAuthService(
	repoFactory user.RepositoryFactory,
	cfg AuthConfig,
	metrics *observability.Metrics,
) (*AuthService, error) {
	if cfg.SecretSize < MinSecretSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSecretTooShort, cfg.SecretSize)
	}

	passwords, err := newPasswordHasher(cfg.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("new password hasher: %w", err)
	}

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	svc := &AuthService{
		Config:    cfg,
		UserRepo:  userRepo,
		Log:       logging.GetLogger("svc.authsvc.auth_service"),
		passwords: passwords,
		metrics:   metrics,
		now:       time.Now,
	}
	svc.Tokens = NewTokenService(svc, cfg.TokenDuration)

	return svc, nil
}

// WithClock makes the service and its token service read time from now.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	s.Tokens = s.Tokens.WithClock(now)

	return s
}

// Register creates a new user account with a fresh signing secret.
// Returns an error wrapping domain.ErrValidation for bad input and
// domain.ErrUserAlreadyExists if the username is taken.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (err error) {
	log := s.Log.With(logging.Group("user", "username", creds.Username))

	defer func() {
		switch {
		case err == nil:
			s.metrics.ObserveRegistration("created")
			log.DebugContext(ctx, "user registered")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			s.metrics.ObserveRegistration("conflict")
			log.InfoContext(ctx, "register user rejected", "error", err)
		case errors.Is(err, domain.ErrValidation):
			s.metrics.ObserveRegistration("invalid")
			log.InfoContext(ctx, "register user rejected", "error", err)
		default:
			s.metrics.ObserveRegistration("error")
			log.ErrorContext(ctx, "register user failed", "error", err)
		}
	}()

	if err := ValidateCredentials(creds); err != nil {
		return err
	}

	passwordHash, err := s.passwords.Hash(creds.Password)
	if err != nil {
		return err
	}

	secret, err := GenerateSigningSecret(s.Config.SecretSize)
	if err != nil {
		return fmt.Errorf("generate signing secret: %w", err)
	}

	//nolint:exhaustruct
	u := &domain.User{
		Username:      creds.Username,
		PasswordHash:  passwordHash,
		SigningSecret: secret,
		CreatedAt:     s.now().Unix(),
	}

	if err := s.UserRepo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Authenticate checks a username/password pair.
// Returns domain.ErrUserNotFound for unknown users and domain.ErrInvalidCredentials
// for a wrong password. Both paths run a bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, creds domain.Credentials) error {
	u, ok, err := s.UserRepo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if !ok {
		_ = s.passwords.Compare(nil, creds.Password)

		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, creds.Username)
	}

	return s.passwords.Compare(u.PasswordHash, creds.Password)
}

// Login authenticates a user and issues a signed token.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (_ string, err error) {
	log := s.Log.With(logging.Group("user", "username", creds.Username))

	defer func() {
		switch {
		case err == nil:
			log.DebugContext(ctx, "login successful")
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrUserNotFound),
			errors.Is(err, domain.ErrInvalidCredentials):
			log.InfoContext(ctx, "login rejected", "error", err)
		default:
			log.ErrorContext(ctx, "login failed", "error", err)
		}
	}()

	if err := ValidateCredentials(creds); err != nil {
		return "", err
	}

	if err := s.Authenticate(ctx, creds); err != nil {
		return "", err
	}

	token, claims, err := s.Tokens.Issue(ctx, creds.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	log = log.With(logging.Group("token",
		"id", claims.ID,
		"exp", claims.ExpiresAt.UTC().Format(time.RFC3339),
	))

	return token, nil
}

// Verify checks a bearer token. See TokenService.Verify.
func (s *AuthService) Verify(ctx context.Context, token string) (domain.TokenClaims, error) {
	claims, err := s.Tokens.Verify(ctx, token)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("verify token: %w", err)
	}

	return claims, nil
}

// SecretFor returns the current signing secret of username.
func (s *AuthService) SecretFor(ctx context.Context, username string) ([]byte, error) {
	u, ok, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}

	return u.SigningSecret, nil
}

// RotateSecret replaces the signing secret of username. Every token issued
// before the rotation stops verifying.
func (s *AuthService) RotateSecret(ctx context.Context, username string) (err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "rotate secret failed", "error", err)
		} else {
			log.InfoContext(ctx, "signing secret rotated")
		}
	}()

	secret, err := GenerateSigningSecret(s.Config.SecretSize)
	if err != nil {
		return fmt.Errorf("generate signing secret: %w", err)
	}

	if err := s.UserRepo.UpdateSigningSecret(ctx, username, secret); err != nil {
		return fmt.Errorf("update signing secret: %w", err)
	}

	return nil
}

// Close releases resources held by the service, such as database connections.
func (s *AuthService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	return nil
}
