package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. It never says which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists signals a duplicate email or username registration.
	ErrUserExists = errors.New("user with this email or username already exists")
	// ErrTokenInvalid means a supplied token is missing, forged or expired.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordMismatch indicates the current password is incorrect.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrPasswordUnchanged indicates the new password matches the current one.
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
)

// User models the authentication entity persisted in storage.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Identity returns the snapshot of the user carried inside session tokens.
func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}

// Identity is the minimal set of user fields embedded in a session token.
type Identity struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Email    string
	Password string
}

// ValidationError reports input that fails a business rule. Its message is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError constructs a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
