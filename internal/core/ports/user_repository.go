package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// UserRepository defines persistence for registered accounts.
// Create maps unique index violations to domain.ErrDuplicateUsername or
// domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
