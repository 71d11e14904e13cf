package ports

import (
	"context"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// AuthService handles registration, login, and logout. The rest of the core
// only ever sees the authenticated identity it produces.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Logout revokes the presented token until its natural expiry.
	Logout(ctx context.Context, token string) error
}
