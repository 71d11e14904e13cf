package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

// NotificationHandler handles the authenticated user's notification feed.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type listNotificationsResponse struct {
	Data []notificationResponse `json:"data"`
}

type unreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// List handles GET /v1/notifications.
//
// @Summary      List the authenticated user's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listNotificationsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	notifications, err := h.service.ListNotifications(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toNotificationList(notifications))
}

// UnreadCount handles GET /v1/notifications/unread_count.
//
// @Summary      Count the authenticated user's unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  unreadCountResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications/unread_count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	count, err := h.service.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, unreadCountResponse{Unread: count})
}

// MarkRead handles POST /v1/notifications/:id/read. Repeating the call on an
// already-read notification succeeds with the same end state.
//
// @Summary      Mark a notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Notification id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toNotificationList(notifications []*domain.Notification) listNotificationsResponse {
	data := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		data = append(data, notificationResponse{
			ID:        n.ID,
			ItemID:    n.ItemID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return listNotificationsResponse{Data: data}
}
