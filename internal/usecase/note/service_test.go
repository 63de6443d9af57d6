package note

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	domain "dashnotes/backend/internal/domain/note"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryNotes struct {
	byID   map[int64]*domain.Note
	nextID int64
}

func newMemoryNotes() *memoryNotes {
	return &memoryNotes{byID: map[int64]*domain.Note{}}
}

func (m *memoryNotes) Create(_ context.Context, note *domain.Note) error {
	m.nextID++
	note.ID = m.nextID
	stored := *note
	m.byID[note.ID] = &stored
	return nil
}

func (m *memoryNotes) GetByID(_ context.Context, userID, id int64) (*domain.Note, error) {
	n, ok := m.byID[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNotFound
	}
	found := *n
	return &found, nil
}

func (m *memoryNotes) ListByUser(_ context.Context, userID int64) ([]*domain.Note, error) {
	out := []*domain.Note{}
	for _, n := range m.byID {
		if n.UserID == userID {
			found := *n
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memoryNotes) Update(_ context.Context, note *domain.Note) error {
	n, ok := m.byID[note.ID]
	if !ok || n.UserID != note.UserID {
		return domain.ErrNotFound
	}
	stored := *note
	m.byID[note.ID] = &stored
	return nil
}

func (m *memoryNotes) Delete(_ context.Context, userID, id int64) error {
	n, ok := m.byID[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestService() (*Service, *memoryNotes, *time.Time) {
	repo := newMemoryNotes()
	svc := NewService(repo)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return now }
	return svc, repo, &now
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "blank title", input: Input{Title: "  ", Content: "body"}, wantErr: domain.ErrTitleRequired},
		{name: "blank content", input: Input{Title: "title", Content: "\n"}, wantErr: domain.ErrContentRequired},
		{name: "title too long", input: Input{Title: strings.Repeat("a", 201), Content: "body"}, wantErr: domain.ErrTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			_, err := svc.Create(context.Background(), 1, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestService_CreateAcceptsMaxLengthTitle(t *testing.T) {
	svc, _, _ := newTestService()
	title := strings.Repeat("é", domain.MaxTitleLength)

	note, err := svc.Create(context.Background(), 1, Input{Title: title, Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, title, note.Title)
}

func TestService_CRUD(t *testing.T) {
	svc, _, now := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, Input{Title: "  Groceries ", Content: "milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Groceries", created.Title)
	assert.Equal(t, *now, created.CreatedAt)

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	*now = now.Add(time.Hour)
	updated, err := svc.Update(ctx, 1, created.ID, Input{Title: "Groceries", Content: "milk, eggs"})
	require.NoError(t, err)
	assert.Equal(t, "milk, eggs", updated.Content)
	assert.Equal(t, *now, updated.UpdatedAt)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	notes, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "milk, eggs", notes[0].Content)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	_, err = svc.Get(ctx, 1, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_OwnershipIsolation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mine, err := svc.Create(ctx, 1, Input{Title: "mine", Content: "secret"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, 2, mine.ID, Input{Title: "stolen", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, mine.ID), domain.ErrNotFound)

	others, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, others)

	still, err := svc.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", still.Title)
}

func TestService_InvalidIDs(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, -1), domain.ErrNotFound)
}
