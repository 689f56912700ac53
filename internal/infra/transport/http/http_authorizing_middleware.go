package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/mkrupp/bookshop/internal/domain"
	context_ "github.com/mkrupp/bookshop/internal/infra/context"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	"github.com/mkrupp/bookshop/internal/svc/authsvc/authclient"
)

const (
	// MessageNotAuthenticated is returned when no bearer token was presented.
	MessageNotAuthenticated = "not authenticated"
	// MessageInvalidToken is returned for every token verification failure.
	MessageInvalidToken = "invalid or expired token"

	// FailureKindNoToken labels requests without a bearer token.
	FailureKindNoToken = "NO_TOKEN"
	// FailureKindUnknown labels verification errors that carry no code.
	FailureKindUnknown = "UNKNOWN"
)

// AuthorizingMiddleware gates next behind a bearer token.
//
// A request without a token is rejected as unauthenticated; any verification
// error is rejected as forbidden. Both answer 403 with a uniform message, the
// specific failure kind is only logged and counted. On success the token's
// username is attached to the request context.
func AuthorizingMiddleware(
	next http.Handler,
	verifier authclient.TokenVerifier,
	log logging.Logger,
	metrics *observability.Metrics,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := BearerToken(r)
		if !ok {
			log.WarnContext(ctx, "request rejected", "kind", FailureKindNoToken, "error", domain.ErrNoAuthToken)
			metrics.ObserveAuthFailure(FailureKindNoToken)
			_ = WriteMessage(w, http.StatusForbidden, MessageNotAuthenticated)

			return
		}

		claims, err := verifier.Verify(ctx, token)
		if err != nil {
			kind := FailureKind(err)

			log.WarnContext(ctx, "request rejected", "kind", kind, "error", err)
			metrics.ObserveAuthFailure(kind)
			_ = WriteMessage(w, http.StatusForbidden, MessageInvalidToken)

			return
		}

		ctx = context_.WithIdentity(ctx, domain.Identity{Username: claims.Username})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

// FailureKind returns the code attached to a verification error, or
// FailureKindUnknown.
func FailureKind(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := fmt.Sprint(oopsErr.Code()); code != "" && code != "<nil>" {
			return code
		}
	}

	if errors.Is(err, domain.ErrNoAuthToken) {
		return FailureKindNoToken
	}

	return FailureKindUnknown
}
