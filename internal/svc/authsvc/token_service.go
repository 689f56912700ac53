package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/svc/authsvc/authclient"
)

// Codes attached to verification errors.
const (
	CodeTokenMalformed    = "TOKEN_MALFORMED"
	CodeTokenUnknownUser  = "TOKEN_UNKNOWN_USER"
	CodeTokenBadSignature = "TOKEN_BAD_SIGNATURE"
	CodeTokenExpired      = "TOKEN_EXPIRED"
)

// DefaultTokenDuration is how long an issued token stays valid.
const DefaultTokenDuration = time.Hour

// SecretSource looks up the signing secret of a user.
type SecretSource interface {
	// SecretFor returns the user's signing secret or an error wrapping domain.ErrUserNotFound.
	SecretFor(ctx context.Context, username string) ([]byte, error)
}

// tokenClaims is the JWT payload. The username is a private claim so that the
// payload stays readable before the signing secret is known.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens signed with per-user secrets.
// It holds no mutable state.
type TokenService struct {
	secrets  SecretSource
	duration time.Duration
	now      func() time.Time
	log      logging.Logger
}

var _ authclient.TokenVerifier = (*TokenService)(nil)

// NewTokenService creates a TokenService. A non-positive duration means DefaultTokenDuration.
func NewTokenService(secrets SecretSource, duration time.Duration) *TokenService {
	if duration <= 0 {
		duration = DefaultTokenDuration
	}

	return &TokenService{
		secrets:  secrets,
		duration: duration,
		now:      time.Now,
		log:      logging.GetLogger("svc.authsvc.token_service"),
	}
}

// WithClock returns a copy of the service reading time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now

	return &c
}

// Issue signs a new token for username with the user's current signing secret.
func (s *TokenService) Issue(ctx context.Context, username string) (_ string, _ domain.TokenClaims, err error) {
	log := s.log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "issue token failed", "error", err)
		} else {
			log.DebugContext(ctx, "token issued")
		}
	}()

	secret, err := s.secrets.SecretFor(ctx, username)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("secret for: %w", err)
	}

	now := s.now()

	//nolint:exhaustruct
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims.toDomain(), nil
}

// Verify checks a token in two passes. The payload is first decoded without
// trusting the signature to learn which user the token claims to belong to;
// that user's secret then verifies the signature, and finally the expiry is
// checked. Errors carry an oops code and wrap the matching domain sentinel.
func (s *TokenService) Verify(ctx context.Context, token string) (domain.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var unverified tokenClaims
	if _, _, err := parser.ParseUnverified(token, &unverified); err != nil {
		return domain.TokenClaims{}, oops.Code(CodeTokenMalformed).Wrap(errors.Join(domain.ErrMalformedToken, err))
	}

	if unverified.Username == "" {
		return domain.TokenClaims{}, oops.Code(CodeTokenMalformed).Wrapf(domain.ErrMalformedToken, "no username claim")
	}

	errb := oops.With("username", unverified.Username)

	secret, err := s.secrets.SecretFor(ctx, unverified.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenClaims{}, errb.Code(CodeTokenUnknownUser).Wrap(domain.ErrTokenUnknownUser)
		}

		return domain.TokenClaims{}, fmt.Errorf("secret for: %w", err)
	}

	var claims tokenClaims

	_, err = parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})

	switch {
	case err == nil:
		return claims.toDomain(), nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.TokenClaims{}, errb.Code(CodeTokenBadSignature).Wrap(errors.Join(domain.ErrBadSignature, err))
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.TokenClaims{}, errb.Code(CodeTokenExpired).Wrap(errors.Join(domain.ErrTokenExpired, err))
	default:
		return domain.TokenClaims{}, errb.Code(CodeTokenMalformed).Wrap(errors.Join(domain.ErrMalformedToken, err))
	}
}

func (c tokenClaims) toDomain() domain.TokenClaims {
	var out domain.TokenClaims

	out.ID = c.ID
	out.Username = c.Username

	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}

	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}

	return out
}
