package postgres

import (
	"context"
	"errors"
	"time"

	domain "dashnotes/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
)

// UserRepository persists users in PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository constructs a repository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

var _ domain.UserRepository = (*UserRepository)(nil)

// Create inserts a new user record and sets its generated id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
INSERT INTO users (username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
SELECT id, username, email, password_hash, created_at, updated_at
FROM users WHERE email = $1
`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
SELECT id, username, email, password_hash, created_at, updated_at
FROM users WHERE id = $1
`
	return r.getOne(ctx, query, id)
}

// ExistsByEmailOrUsername reports whether either identifier is already taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdatePassword updates the stored password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	const query = `
UPDATE users
SET password_hash = $2, updated_at = $3
WHERE id = $1
`
	ct, err := r.db.Exec(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
