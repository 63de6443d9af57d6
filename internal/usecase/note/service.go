package note

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	domain "dashnotes/backend/internal/domain/note"
)

// Service encapsulates note use cases. Every operation is scoped to the calling user.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a note service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// Input contains the editable note fields.
type Input struct {
	Title   string
	Content string
}

func (in Input) normalize() (Input, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, domain.ErrTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return in, domain.ErrContentRequired
	}
	if utf8.RuneCountInString(in.Title) > domain.MaxTitleLength {
		return in, domain.ErrTitleTooLong
	}
	return in, nil
}

// List returns the user's notes, most recently updated first.
func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new note after validation.
func (s *Service) Create(ctx context.Context, userID int64, input Input) (*domain.Note, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	note := &domain.Note{
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Get fetches one of the user's notes.
func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Note, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, userID, id)
}

// Update replaces title and content of one of the user's notes.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*domain.Note, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	note, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	note.Update(input.Title, input.Content, s.nowFunc().UTC())
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes one of the user's notes.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, userID, id)
}
