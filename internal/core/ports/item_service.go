package ports

import (
	"context"
	"time"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// ItemDraft carries all data needed to post a new listing. OwnerID comes from
// the authenticated identity, never from the request body.
type ItemDraft struct {
	Type          string
	Title         string
	Description   string
	Category      string
	Location      string
	DateOccurred  *time.Time
	ImageFilename string
	OwnerID       string
}

// UpdateItemInput names the fields a PATCH may touch. Nil means "leave as is".
type UpdateItemInput struct {
	Status        *string
	Description   *string
	ImageFilename *string
}

// SearchItemsInput carries all parameters for the browse/search endpoint.
type SearchItemsInput struct {
	Type     string
	Category string
	Status   string
	OwnerID  string
	Query    string
	Page     int
	Limit    int
}

// SearchItemsResult is returned by SearchItems.
type SearchItemsResult struct {
	Items      []*domain.Item
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostItemResult is returned by PostItem. FanoutFailures counts recipients
// whose notification could not be created; the item itself was still created.
type PostItemResult struct {
	Item           *domain.Item
	FanoutFailures int
}

// ItemService defines the use-case operations for listings.
//
// PostItem guarantees that on success every then-existing user other than the
// poster holds a notification for a lost item. The fan-out is best-effort and
// non-transactional: per-recipient failures are collected and reported in the
// result, never rolled back, and never fail the call.
type ItemService interface {
	PostItem(ctx context.Context, draft ItemDraft) (*PostItemResult, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	SearchItems(ctx context.Context, input SearchItemsInput) (*SearchItemsResult, error)
	UpdateItem(ctx context.Context, id string, input UpdateItemInput, actingUserID string) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string, actingUserID string) error
}
