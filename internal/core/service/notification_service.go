package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

type NotificationService struct {
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewNotificationService(notifications ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead flips the read flag. Only the recipient may mark their own
// notification; repeating the call on an already-read one is a no-op success.
func (s *NotificationService) MarkRead(ctx context.Context, id string, actingUserID string) error {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != actingUserID {
		return domain.ErrForbidden
	}
	if n.Read {
		return nil
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	s.logger.Debug().Str("notification_id", id).Str("recipient_id", actingUserID).Msg("notification read")
	return nil
}
