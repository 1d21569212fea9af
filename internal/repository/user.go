package repository

import (
	"context"
	"errors"

	"eventbook/internal/domain"
)

var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a unique constraint was violated.
	ErrConflict = errors.New("duplicate record")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// EmailTaken reports whether another user (excluding excludeID, pass 0
	// to exclude nobody) already holds the email.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	// Update applies a field patch; zero rows affected surfaces as ErrNotFound.
	Update(ctx context.Context, id int64, patch domain.UserPatch) error
	// Delete removes the user and, by cascade, all owned events.
	Delete(ctx context.Context, id int64) error
}
