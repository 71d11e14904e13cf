package domain

import (
	"errors"
	"time"
)

// ItemType says whether a listing reports something lost or something found.
type ItemType string

const (
	TypeLost  ItemType = "lost"
	TypeFound ItemType = "found"
)

// ItemStatus is the lifecycle flag an owner can flip once the case is closed.
type ItemStatus string

const (
	StatusActive   ItemStatus = "active"
	StatusResolved ItemStatus = "resolved"
)

// Categories is the closed set of item categories. Values outside the set are
// rejected, never coerced.
var Categories = []string{
	"Electronics", "Clothing", "Jewelry", "Keys", "Documents",
	"Bags", "Books", "Pets", "Vehicles", "Sports Equipment", "Other",
}

var ErrInvalidItem = errors.New("invalid item")
var ErrItemNotFound = errors.New("item not found")
var ErrOwnerNotFound = errors.New("item owner not found")
var ErrForbidden = errors.New("access forbidden")

// Valid reports whether t is one of the two listing types.
func (t ItemType) Valid() bool {
	return t == TypeLost || t == TypeFound
}

// Valid reports whether s is a known lifecycle status.
func (s ItemStatus) Valid() bool {
	return s == StatusActive || s == StatusResolved
}

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is the core aggregate: a single lost or found listing.
type Item struct {
	ID            string     `json:"id" bson:"_id"`
	Type          ItemType   `json:"type" bson:"type"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description" bson:"description"`
	Category      string     `json:"category" bson:"category"`
	Location      string     `json:"location" bson:"location"`
	DateOccurred  *time.Time `json:"date_occurred,omitempty" bson:"date_occurred,omitempty"`
	ImageFilename string     `json:"image_filename,omitempty" bson:"image_filename,omitempty"`
	OwnerID       string     `json:"owner_id" bson:"owner_id"`
	Status        ItemStatus `json:"status" bson:"status"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}
