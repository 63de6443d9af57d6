package postgres

import (
	"context"
	"errors"

	domain "dashnotes/backend/internal/domain/note"

	"github.com/jackc/pgx/v5"
)

// NoteRepository persists notes in PostgreSQL. Every statement is filtered by owner.
type NoteRepository struct {
	db DBTX
}

// NewNoteRepository constructs a repository.
func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

var _ domain.Repository = (*NoteRepository)(nil)

// Create inserts a new note and sets its generated id.
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
INSERT INTO notes (user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	return r.db.QueryRow(ctx, query,
		note.UserID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID)
}

// GetByID fetches a note owned by userID.
func (r *NoteRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Note, error) {
	const query = `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes WHERE id = $1 AND user_id = $2
`
	note, err := scanNote(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return note, nil
}

// ListByUser returns the user's notes, most recently updated first.
func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Note, error) {
	const query = `
SELECT id, user_id, title, content, created_at, updated_at
FROM notes
WHERE user_id = $1
ORDER BY updated_at DESC, id DESC
`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// Update writes title, content and updated_at for a note owned by note.UserID.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	const query = `
UPDATE notes
SET title = $3,
    content = $4,
    updated_at = $5
WHERE id = $1 AND user_id = $2
`
	tag, err := r.db.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a note owned by userID.
func (r *NoteRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM notes WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
