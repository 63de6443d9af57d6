package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "dashnotes/backend/internal/domain/auth"
)

// MinPasswordLength is the shortest password accepted at registration or password change.
const MinPasswordLength = 8

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are rejected rather than truncated.
const MaxPasswordBytes = 72

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	hasher  PasswordHasher
	tokens  TokenManager
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, hasher PasswordHasher, tokens TokenManager) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// RegisterInput carries the fields submitted at sign-up.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new user and returns a session token plus the user without a password hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (string, *domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return "", nil, domain.NewValidationError("All fields are required")
	}
	if input.Password != input.ConfirmPassword {
		return "", nil, domain.NewValidationError("Passwords do not match")
	}
	if err := checkPasswordLength(input.Password); err != nil {
		return "", nil, err
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return "", nil, err
	}
	if exists {
		return "", nil, domain.ErrUserExists
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return "", nil, err
	}
	return token, sanitizeUser(user), nil
}

// Login validates credentials and returns a token plus user.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return "", nil, err
	}
	return token, sanitizeUser(user), nil
}

// Authenticate verifies a session token and returns the identity embedded in it.
func (s *Service) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &identity, nil
}

// ChangePassword replaces the stored digest after checking the current password.
// Tokens issued before the change stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewValidationError("current_password and new_password are required")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrPasswordMismatch
	}
	if currentPassword == newPassword {
		return domain.ErrPasswordUnchanged
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hashed, s.nowFunc().UTC())
}

func checkPasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return domain.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
