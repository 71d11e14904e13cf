package ports

import (
	"context"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

// ListItemsFilter carries all query parameters for listing items. Zero values
// mean "no filter". Query is matched as a case-insensitive substring against
// title, description, and location.
type ListItemsFilter struct {
	Type     string // optional: "lost" or "found"
	Category string // optional: one of the closed category set
	Status   string // optional: "active" or "resolved"
	OwnerID  string // optional: scope to a single owner (dashboard view)
	Query    string // optional: substring search
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by the service)
}

// ItemPatch holds the only fields an owner may change after creation.
// Nil pointers leave the stored value untouched.
type ItemPatch struct {
	Status        *domain.ItemStatus
	Description   *string
	ImageFilename *string
}

// ItemRepository defines persistence operations for items.
//
// List results are always ordered by created_at descending; this ordering is
// a user-facing contract, not an implementation detail.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// List returns a page of items matching filter and the total match count.
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, int64, error)
	Update(ctx context.Context, id string, patch ItemPatch) error
	Delete(ctx context.Context, id string) error
}
