package note

import (
	"errors"
	"time"
)

// MaxTitleLength bounds the note title in characters.
const MaxTitleLength = 200

var (
	// ErrNotFound indicates a note does not exist or belongs to another user.
	ErrNotFound = errors.New("note not found")
	// ErrTitleRequired signals a blank title.
	ErrTitleRequired = errors.New("title is required")
	// ErrContentRequired signals blank content.
	ErrContentRequired = errors.New("content is required")
	// ErrTitleTooLong signals a title above MaxTitleLength.
	ErrTitleTooLong = errors.New("title must be less than 200 characters")
)

// Note captures a single note owned by one user.
type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update replaces the editable fields and bumps the modification time.
func (n *Note) Update(title, content string, now time.Time) {
	n.Title = title
	n.Content = content
	n.UpdatedAt = now
}
