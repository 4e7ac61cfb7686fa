package port

import (
	"context"

	"github.com/google/uuid"

	"lostfound/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	// Create inserts a user. Returns domain.ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
