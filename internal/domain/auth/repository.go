package auth

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for auth users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error
}
