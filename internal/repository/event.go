package repository

import (
	"context"

	"eventbook/internal/domain"
)

// EventRepository defines persistence operations for Event entities. Reads
// always join the owning user's identity fields.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	// List returns a filtered, sorted page of events plus the total number
	// of rows matching the same filter.
	List(ctx context.Context, q domain.ListQuery) ([]domain.Event, int, error)
	// Search returns every event whose title, description or location
	// contains the term, ordered by start date.
	Search(ctx context.Context, term string) ([]domain.Event, error)
	// Update applies a field patch; zero rows affected surfaces as ErrNotFound.
	Update(ctx context.Context, id int64, patch domain.EventPatch) error
	Delete(ctx context.Context, id int64) error
}
