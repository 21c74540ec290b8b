package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already taken")
	ErrConflict  = errors.New("record was modified concurrently")
)

// UserRepository defines the persistence operations for user records.
// Lookups return ErrNotFound when nothing matches. Create and Save validate
// the record first and return a *ValidationError on bad input.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Save writes every field and the following set. It fails with
	// ErrConflict when u.Version is stale, and bumps Version/UpdatedAt on success.
	Save(ctx context.Context, u *entity.User) error
}
