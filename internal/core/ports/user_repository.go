package ports

import (
	"context"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// UserRepository defines persistence operations for accounts. Create must be
// race-free with respect to the username uniqueness check (unique index or
// single lock section, never check-then-insert across calls). Username
// comparison is case-sensitive.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListAll is used exclusively by the notification fan-out.
	// Callers must not depend on its ordering.
	ListAll(ctx context.Context) ([]*domain.User, error)
}
