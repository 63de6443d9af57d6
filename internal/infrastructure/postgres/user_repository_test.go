package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "dashnotes/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name    string
		setup   func(pgxmock.PgxPoolIface)
		wantErr error
		wantID  int64
	}{
		{
			name: "inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs("alice", "alice@example.com", "digest", now, now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			wantID: 7,
		},
		{
			name: "unique violation",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO users").
					WithArgs("alice", "alice@example.com", "digest", now, now).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: domain.ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			tt.setup(mock)
			repo := NewUserRepository(mock)

			candidate := *user
			err := repo.Create(context.Background(), &candidate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, candidate.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock := newMockPool(t)
	mock.ExpectQuery("SELECT id, username, email, password_hash").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "alice@example.com", "digest", now, now))
	mock.ExpectQuery("SELECT id, username, email, password_hash").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, user)

	_, err = repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDPropagatesErrors(t *testing.T) {
	mock := newMockPool(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(3)).
		WillReturnError(boom)

	_, err := NewUserRepository(mock).GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmailOrUsername(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice@example.com", "alice").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewUserRepository(mock).ExistsByEmailOrUsername(context.Background(), "alice@example.com", "alice")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock := newMockPool(t)
	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), "new-digest", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users").
		WithArgs(int64(2), "new-digest", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.UpdatePassword(context.Background(), 1, "new-digest", now))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 2, "new-digest", now), domain.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}
