package ports

import (
	"context"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// NotificationService exposes a user's notification feed.
type NotificationService interface {
	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead flips the read flag. Only the recipient may do so; marking an
	// already-read notification again succeeds without error.
	MarkRead(ctx context.Context, id string, actingUserID string) error
}
