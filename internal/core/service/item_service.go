package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reclaimhq/lostfound-system/internal/api/metrics"
	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ItemService struct {
	items         ports.ItemRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewItemService(
	items ports.ItemRepository,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:         items,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// PostItem validates and stores a new listing. For lost items it then fans a
// notification out to every other registered user. The fan-out is best-effort
// and non-transactional: the item is the durable outcome, and per-recipient
// failures are counted and logged but never abort the call.
func (s *ItemService) PostItem(ctx context.Context, draft ports.ItemDraft) (*ports.PostItemResult, error) {
	itemType := domain.ItemType(draft.Type)
	if !itemType.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidItem, draft.Type)
	}
	if !domain.ValidCategory(draft.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidItem, draft.Category)
	}
	if _, err := s.users.FindByID(ctx, draft.OwnerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}

	item := &domain.Item{
		ID:            generateItemID(),
		Type:          itemType,
		Title:         draft.Title,
		Description:   draft.Description,
		Category:      draft.Category,
		Location:      draft.Location,
		DateOccurred:  draft.DateOccurred,
		ImageFilename: draft.ImageFilename,
		OwnerID:       draft.OwnerID,
		Status:        domain.StatusActive,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Msg("failed to create item")
		return nil, err
	}
	metrics.ItemsCreatedTotal.WithLabelValues(string(item.Type)).Inc()

	s.logger.Info().
		Str("item_id", item.ID).
		Str("type", string(item.Type)).
		Str("owner_id", item.OwnerID).
		Msg("item created")

	result := &ports.PostItemResult{Item: item}
	if item.Type == domain.TypeLost {
		result.FanoutFailures = s.fanOut(ctx, item)
	}
	return result, nil
}

// fanOut creates one notification per registered user, skipping the poster.
// Returns the number of recipients whose notification could not be created.
func (s *ItemService) fanOut(ctx context.Context, item *domain.Item) int {
	start := time.Now()
	defer func() {
		metrics.FanoutDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := s.users.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("fan-out aborted: listing users failed")
		metrics.FanoutDeliveriesTotal.WithLabelValues("failed").Inc()
		return 1
	}

	failures := 0
	for _, u := range users {
		if u.ID == item.OwnerID {
			continue
		}
		n := &domain.Notification{
			RecipientID: u.ID,
			ItemID:      item.ID,
			Title:       "New Lost Item Posted: " + item.Title,
			Message:     fmt.Sprintf("A new lost item '%s' was posted in %s.", item.Title, item.Location),
			Type:        domain.NotificationLostItem,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			failures++
			metrics.FanoutDeliveriesTotal.WithLabelValues("failed").Inc()
			s.logger.Warn().Err(err).
				Str("item_id", item.ID).
				Str("recipient_id", u.ID).
				Msg("failed to create notification")
			continue
		}
		metrics.FanoutDeliveriesTotal.WithLabelValues("created").Inc()
	}

	if failures > 0 {
		s.logger.Warn().
			Str("item_id", item.ID).
			Int("failures", failures).
			Msg("fan-out completed with failures")
	}
	return failures
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

// SearchItems runs the filtered, paged listing. Results are ordered by
// created_at descending; the ordering is part of the contract.
func (s *ItemService) SearchItems(ctx context.Context, input ports.SearchItemsInput) (*ports.SearchItemsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.items.List(ctx, ports.ListItemsFilter{
		Type:     input.Type,
		Category: input.Category,
		Status:   input.Status,
		OwnerID:  input.OwnerID,
		Query:    input.Query,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if input.Query != "" {
		metrics.SearchesTotal.Inc()
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.SearchItemsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateItem applies an owner's patch. Only status, description, and the
// image filename are mutable; everything else is frozen at creation.
func (s *ItemService) UpdateItem(ctx context.Context, id string, input ports.UpdateItemInput, actingUserID string) (*domain.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actingUserID {
		return nil, domain.ErrForbidden
	}

	patch := ports.ItemPatch{
		Description:   input.Description,
		ImageFilename: input.ImageFilename,
	}
	if input.Status != nil {
		status := domain.ItemStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidItem, *input.Status)
		}
		patch.Status = &status
	}

	if err := s.items.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	s.logger.Info().Str("item_id", id).Str("owner_id", actingUserID).Msg("item updated")
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) DeleteItem(ctx context.Context, id string, actingUserID string) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item.OwnerID != actingUserID {
		return domain.ErrForbidden
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("item_id", id).Str("owner_id", actingUserID).Msg("item deleted")
	return nil
}

// generateItemID returns a short random token, e.g. "3f9c01ab". Uniqueness is
// additionally enforced by the store's primary key.
func generateItemID() string {
	return uuid.NewString()[:8]
}
