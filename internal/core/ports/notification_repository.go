package ports

import (
	"context"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListForUser returns the user's notifications, newest first.
	ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead is idempotent: marking an already-read notification succeeds.
	MarkRead(ctx context.Context, id string) error
}
