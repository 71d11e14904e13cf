// Package memory provides mutex-guarded in-memory implementations of the
// repository ports. They back the single-binary development mode and the
// concurrency tests; the mongo package provides the durable equivalents.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

type ItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[string]*domain.Item)}
}

func (r *ItemRepository) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("item id %s already exists", item.ID)
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *ItemRepository) FindByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

// List filters, orders by created_at descending, and pages the result.
func (r *ItemRepository) List(_ context.Context, f ports.ListItemsFilter) ([]*domain.Item, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Item
	for _, item := range r.items {
		if !matches(item, f) {
			continue
		}
		clone := *item
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))

	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []*domain.Item{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *ItemRepository) Update(_ context.Context, id string, patch ports.ItemPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.ImageFilename != nil {
		item.ImageFilename = *patch.ImageFilename
	}
	return nil
}

func (r *ItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func matches(item *domain.Item, f ports.ListItemsFilter) bool {
	if f.Type != "" && string(item.Type) != f.Type {
		return false
	}
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Status != "" && string(item.Status) != f.Status {
		return false
	}
	if f.OwnerID != "" && item.OwnerID != f.OwnerID {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(item.Title), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) &&
			!strings.Contains(strings.ToLower(item.Location), q) {
			return false
		}
	}
	return true
}
