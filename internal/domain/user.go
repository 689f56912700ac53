package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account.
//
// SigningSecret signs the user's bearer tokens and must never leave the auth service.
type User struct {
	Username      string // Login username, unique and case-sensitive
	PasswordHash  []byte // bcrypt hash of the password
	SigningSecret []byte // Per-user HMAC key
	CreatedAt     int64  // Unix timestamp of account creation
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
