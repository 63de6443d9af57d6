package note

import "context"

// Repository defines persistence behaviours for notes. Every lookup is scoped to the owner.
type Repository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, userID, id int64) (*Note, error)
	ListByUser(ctx context.Context, userID int64) ([]*Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, userID, id int64) error
}
