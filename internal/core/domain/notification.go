package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationLostItem is the kind created by the lost-item fan-out.
const NotificationLostItem = "lost_item"

// Notification is addressed to a single recipient and references the item
// that triggered it by id only.
type Notification struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	RecipientID string    `json:"recipient_id" bson:"recipient_id"`
	ItemID      string    `json:"item_id" bson:"item_id"`
	Title       string    `json:"title" bson:"title"`
	Message     string    `json:"message" bson:"message"`
	Type        string    `json:"type" bson:"type"`
	Read        bool      `json:"read" bson:"read"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
