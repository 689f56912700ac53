package authsvc

import (
	"context"
	"errors"
	"net/http"

	"github.com/mkrupp/bookshop/internal/domain"
	context_ "github.com/mkrupp/bookshop/internal/infra/context"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	http_ "github.com/mkrupp/bookshop/internal/infra/transport/http"
)

// Response messages.
const (
	MessageRegistered         = "User registered successfully!"
	MessageLoggedIn           = "Login successful!"
	MessageMissingCredentials = "Username and password are required."
	MessageUserExists         = "Username already exists."
	MessageUserNotFound       = "User not found."
	MessageBadCredentials     = "Invalid username or password."
	MessageInternal           = "internal server error"
)

// HTTPTransport handles HTTP requests for the authentication service.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
	mux     *http.ServeMux
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport for authSvc. Routes:
//   - POST /register: create an account
//   - POST /login: exchange credentials for a bearer token
//   - POST /auth/logout: rotate the caller's signing secret (bearer token required)
func NewHTTPTransport(authSvc *AuthService, metrics *observability.Metrics) *HTTPTransport {
	ht := &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
		mux:     http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /register", ht.HandleRegister)
	ht.mux.HandleFunc("POST /login", ht.HandleLogin)
	ht.mux.Handle("POST /auth/logout",
		http_.AuthorizingMiddleware(http.HandlerFunc(ht.HandleLogout), authSvc, ht.log, metrics))

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

// Routes registers the transport's patterns on mux, delegating to ht.
func (ht *HTTPTransport) Routes(mux *http.ServeMux) {
	mux.Handle("POST /register", ht)
	mux.Handle("POST /login", ht)
	mux.Handle("POST /auth/logout", ht)
}

// HandleRegister processes user registration requests.
// Accepts a JSON or form body with username and password.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleRegister(w, r)
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "user register failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}(r.Context())

	creds, err := decodeCredentials(w, r)
	if err != nil {
		return ht.writeError(w, r, err)
	}

	log = log.With(logging.Group("user", "username", creds.Username))

	if err := ht.authSvc.Register(r.Context(), creds); err != nil {
		return ht.writeError(w, r, err)
	}

	return http_.WriteMessage(w, http.StatusCreated, MessageRegistered)
}

// HandleLogin processes user login requests.
// Accepts a JSON or form body with username and password and returns a bearer token.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "user login failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	creds, err := decodeCredentials(w, r)
	if err != nil {
		return ht.writeError(w, r, err)
	}

	log = log.With(logging.Group("user", "username", creds.Username))

	token, err := ht.authSvc.Login(r.Context(), creds)
	if err != nil {
		return ht.writeError(w, r, err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.AuthTokenResponse{Message: MessageLoggedIn, Token: token})
}

// HandleLogout rotates the signing secret of the authenticated caller, which
// invalidates every token issued to them so far.
func (ht *HTTPTransport) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogout(w, r)
}

func (ht *HTTPTransport) handleLogout(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "user logout failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged out")
		}
	}(r.Context())

	username, ok := context_.UsernameFromContext(r.Context())
	if !ok {
		_ = http_.WriteMessage(w, http.StatusForbidden, http_.MessageNotAuthenticated)

		return domain.ErrNoAuthToken
	}

	if err := ht.authSvc.RotateSecret(r.Context(), username); err != nil {
		return ht.writeError(w, r, err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, error) {
	var creds domain.Credentials

	err := http_.DecodeBody(w, r, &creds, func(get func(string) string) {
		creds.Username = get("username")
		creds.Password = get("password")
	})
	if err != nil {
		return domain.Credentials{}, err
	}

	return creds, nil
}

// writeError maps a service error to a status code and JSON message and returns err.
func (ht *HTTPTransport) writeError(w http.ResponseWriter, r *http.Request, err error) error {
	var (
		status  int
		message string
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, MessageMissingCredentials
	case errors.Is(err, domain.ErrUserAlreadyExists):
		status, message = http.StatusConflict, MessageUserExists
	case errors.Is(err, domain.ErrUserNotFound):
		status, message = http.StatusNotFound, MessageUserNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, MessageBadCredentials
	default:
		ht.log.ErrorContext(r.Context(), "request failed", "error", err)

		status, message = http.StatusInternalServerError, MessageInternal
	}

	_ = http_.WriteMessage(w, status, message)

	return err
}
