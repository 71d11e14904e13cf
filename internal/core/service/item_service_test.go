package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubItemRepo struct {
	byID      map[string]*domain.Item
	createErr error // if set, Create returns this error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{byID: make(map[string]*domain.Item)}
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *item
	r.byID[item.ID] = &clone
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use, ordered by
// created_at descending.
func (r *stubItemRepo) List(_ context.Context, f ports.ListItemsFilter) ([]*domain.Item, int64, error) {
	var matched []*domain.Item
	for _, item := range r.byID {
		if f.Type != "" && string(item.Type) != f.Type {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if f.Status != "" && string(item.Status) != f.Status {
			continue
		}
		if f.OwnerID != "" && item.OwnerID != f.OwnerID {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			titleMatch := strings.Contains(strings.ToLower(item.Title), q)
			descMatch := strings.Contains(strings.ToLower(item.Description), q)
			locMatch := strings.Contains(strings.ToLower(item.Location), q)
			if !titleMatch && !descMatch && !locMatch {
				continue
			}
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
	if skip > len(matched) {
		return []*domain.Item{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubItemRepo) Update(_ context.Context, id string, patch ports.ItemPatch) error {
	item, ok := r.byID[id]
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

func (r *stubItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubUserRepo struct {
	byID       map[string]*domain.User
	byUsername map[string]*domain.User
	listErr    error // if set, ListAll returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) add(id, username string) *domain.User {
	u := &domain.User{ID: id, Username: username, CreatedAt: time.Now().UTC()}
	r.byID[id] = u
	r.byUsername[username] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byUsername[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	clone.ID = fmt.Sprintf("user_%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	r.byUsername[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

type stubNotificationRepo struct {
	stored    []*domain.Notification
	nextID    int
	createErr error            // if set, every Create fails
	failFor   map[string]error // per-recipient Create failures
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{failFor: make(map[string]error)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if err, ok := r.failFor[n.RecipientID]; ok {
		return err
	}
	r.nextID++
	clone := *n
	clone.ID = fmt.Sprintf("notif_%d", r.nextID)
	r.stored = append(r.stored, &clone)
	return nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	for _, n := range r.stored {
		if n.ID == id {
			clone := *n
			return &clone, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) ListForUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.RecipientID == userID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.stored {
		if n.RecipientID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id string) error {
	for _, n := range r.stored {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) forRecipient(userID string) []*domain.Notification {
	var out []*domain.Notification
	for _, n := range r.stored {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixture struct {
	items         *stubItemRepo
	users         *stubUserRepo
	notifications *stubNotificationRepo
	svc           *ItemService
}

func newFixture() *fixture {
	items := newStubItemRepo()
	users := newStubUserRepo()
	notifications := newStubNotificationRepo()
	return &fixture{
		items:         items,
		users:         users,
		notifications: notifications,
		svc:           NewItemService(items, users, notifications, discardLogger),
	}
}

func lostDraft(ownerID string) ports.ItemDraft {
	return ports.ItemDraft{
		Type:        "lost",
		Title:       "Blue Backpack",
		Description: "Navy blue backpack with laptop inside",
		Category:    "Bags",
		Location:    "Central Library",
		OwnerID:     ownerID,
	}
}

// ---------------------------------------------------------------------------
// PostItem tests
// ---------------------------------------------------------------------------

func TestItemService_Post_Success(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	result, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := result.Item
	if len(item.ID) != 8 {
		t.Errorf("expected 8-char item id, got %q", item.ID)
	}
	if item.Status != domain.StatusActive {
		t.Errorf("expected status %q, got %q", domain.StatusActive, item.Status)
	}
	if item.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if result.FanoutFailures != 0 {
		t.Errorf("expected 0 fan-out failures, got %d", result.FanoutFailures)
	}
	if _, ok := f.items.byID[item.ID]; !ok {
		t.Error("item was not stored")
	}
}

func TestItemService_Post_UnknownType(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	draft := lostDraft("user_1")
	draft.Type = "misplaced"

	_, err := f.svc.PostItem(context.Background(), draft)
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem, got %v", err)
	}
}

func TestItemService_Post_UnknownCategory(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	draft := lostDraft("user_1")
	draft.Category = "Furniture"

	_, err := f.svc.PostItem(context.Background(), draft)
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem for category outside the closed set, got %v", err)
	}
}

func TestItemService_Post_CategoryIsCaseSensitive(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	draft := lostDraft("user_1")
	draft.Category = "bags" // valid category is "Bags"

	_, err := f.svc.PostItem(context.Background(), draft)
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Errorf("category must not be coerced: expected ErrInvalidItem, got %v", err)
	}
}

func TestItemService_Post_OwnerMissing(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PostItem(context.Background(), lostDraft("ghost"))
	if !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound, got %v", err)
	}
	if len(f.items.byID) != 0 {
		t.Error("no item must be stored when the owner does not exist")
	}
}

func TestItemService_Post_RepoError(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.items.createErr = errors.New("db unavailable")

	_, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
	if len(f.notifications.stored) != 0 {
		t.Error("no notifications must be created when the item itself failed")
	}
}

func TestItemService_Post_IDsAreUnique(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		result, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
		if err != nil {
			t.Fatalf("post %d failed: %v", i, err)
		}
		if seen[result.Item.ID] {
			t.Fatalf("duplicate item id %q", result.Item.ID)
		}
		seen[result.Item.ID] = true
	}
}

// ---------------------------------------------------------------------------
// Fan-out tests
// ---------------------------------------------------------------------------

func TestItemService_Post_LostItemNotifiesEveryOtherUser(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.add("user_2", "bob")
	f.users.add("user_3", "carol")

	result, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.notifications.stored) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(f.notifications.stored))
	}
	if got := f.notifications.forRecipient("user_1"); len(got) != 0 {
		t.Errorf("the poster must not be notified, got %d notifications", len(got))
	}
	for _, recipient := range []string{"user_2", "user_3"} {
		got := f.notifications.forRecipient(recipient)
		if len(got) != 1 {
			t.Fatalf("%s: expected exactly 1 notification, got %d", recipient, len(got))
		}
		n := got[0]
		if n.Title != "New Lost Item Posted: Blue Backpack" {
			t.Errorf("%s: wrong title %q", recipient, n.Title)
		}
		if n.Message != "A new lost item 'Blue Backpack' was posted in Central Library." {
			t.Errorf("%s: wrong message %q", recipient, n.Message)
		}
		if n.Type != domain.NotificationLostItem {
			t.Errorf("%s: wrong type %q", recipient, n.Type)
		}
		if n.ItemID != result.Item.ID {
			t.Errorf("%s: notification references item %q, want %q", recipient, n.ItemID, result.Item.ID)
		}
		if n.Read {
			t.Errorf("%s: new notification must be unread", recipient)
		}
	}
}

func TestItemService_Post_FoundItemNotifiesNobody(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.add("user_2", "bob")

	draft := lostDraft("user_1")
	draft.Type = "found"

	_, err := f.svc.PostItem(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.stored) != 0 {
		t.Errorf("found items must not fan out, got %d notifications", len(f.notifications.stored))
	}
}

func TestItemService_Post_SoleUserNotifiesNobody(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	_, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.stored) != 0 {
		t.Errorf("expected no notifications with a single user, got %d", len(f.notifications.stored))
	}
}

func TestItemService_Post_FanoutFailureDoesNotFailTheCall(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.add("user_2", "bob")
	f.users.add("user_3", "carol")
	f.notifications.failFor["user_2"] = errors.New("write failed")

	result, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err != nil {
		t.Fatalf("a fan-out failure must not fail PostItem: %v", err)
	}
	if result.FanoutFailures != 1 {
		t.Errorf("expected 1 fan-out failure, got %d", result.FanoutFailures)
	}
	// The item is durable and the remaining recipient was still notified.
	if _, ok := f.items.byID[result.Item.ID]; !ok {
		t.Error("item must be stored despite fan-out failures")
	}
	if got := f.notifications.forRecipient("user_3"); len(got) != 1 {
		t.Errorf("user_3: expected 1 notification, got %d", len(got))
	}
}

func TestItemService_Post_ListUsersFailureDoesNotFailTheCall(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.listErr = errors.New("db unavailable")

	result, err := f.svc.PostItem(context.Background(), lostDraft("user_1"))
	if err != nil {
		t.Fatalf("a fan-out failure must not fail PostItem: %v", err)
	}
	if result.FanoutFailures == 0 {
		t.Error("expected fan-out failures to be reported")
	}
	if _, ok := f.items.byID[result.Item.ID]; !ok {
		t.Error("item must be stored despite the fan-out aborting")
	}
}

// ---------------------------------------------------------------------------
// SearchItems tests
// ---------------------------------------------------------------------------

func seedItem(f *fixture, t *testing.T, mutate func(*ports.ItemDraft)) *domain.Item {
	t.Helper()
	draft := lostDraft("user_1")
	if mutate != nil {
		mutate(&draft)
	}
	result, err := f.svc.PostItem(context.Background(), draft)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return result.Item
}

func TestSearchItems_DefaultLimit(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", res.Limit)
	}
	if res.Page != 1 {
		t.Errorf("expected page 1, got %d", res.Page)
	}
}

func TestSearchItems_LimitCappedAt100(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{Limit: 999})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 100 {
		t.Errorf("expected limit 100, got %d", res.Limit)
	}
}

func TestSearchItems_PaginationMath(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	for i := 0; i < 5; i++ {
		seedItem(f, t, nil)
	}

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{Limit: 2, Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 {
		t.Errorf("total: expected 5, got %d", res.Total)
	}
	if res.TotalPages != 3 {
		t.Errorf("total_pages: expected 3, got %d", res.TotalPages)
	}
	if len(res.Items) != 2 {
		t.Errorf("items: expected 2, got %d", len(res.Items))
	}
}

func TestSearchItems_QueryIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	seedItem(f, t, func(d *ports.ItemDraft) { d.Title = "Red Umbrella" })
	seedItem(f, t, func(d *ports.ItemDraft) { d.Title = "Black Wallet" })

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{Query: "UMBRELLA"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("expected 1 match, got %d", res.Total)
	}
}

func TestSearchItems_QueryMatchesLocation(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	seedItem(f, t, func(d *ports.ItemDraft) { d.Location = "North Campus Gym" })
	seedItem(f, t, func(d *ports.ItemDraft) { d.Location = "Cafeteria" })

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{Query: "campus"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("expected 1 match on location, got %d", res.Total)
	}
}

func TestSearchItems_FilterByTypeAndCategory(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	seedItem(f, t, func(d *ports.ItemDraft) { d.Category = "Keys" })
	seedItem(f, t, func(d *ports.ItemDraft) { d.Type = "found"; d.Category = "Keys" })
	seedItem(f, t, func(d *ports.ItemDraft) { d.Category = "Electronics" })

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{Type: "lost", Category: "Keys"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("expected 1 lost Keys item, got %d", res.Total)
	}
}

func TestSearchItems_NewestFirst(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")

	// Backdate the stored items so ordering is deterministic.
	old := seedItem(f, t, func(d *ports.ItemDraft) { d.Title = "Older" })
	f.items.byID[old.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	seedItem(f, t, func(d *ports.ItemDraft) { d.Title = "Newer" })

	res, err := f.svc.SearchItems(context.Background(), ports.SearchItemsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}
	if res.Items[0].Title != "Newer" {
		t.Errorf("expected newest item first, got %q", res.Items[0].Title)
	}
}

// ---------------------------------------------------------------------------
// UpdateItem / DeleteItem tests
// ---------------------------------------------------------------------------

func strPtr(s string) *string { return &s }

func TestUpdateItem_OwnerResolves(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	item := seedItem(f, t, nil)

	updated, err := f.svc.UpdateItem(context.Background(), item.ID, ports.UpdateItemInput{
		Status: strPtr("resolved"),
	}, "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Errorf("expected status resolved, got %q", updated.Status)
	}
}

func TestUpdateItem_NonOwnerForbidden(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.add("user_2", "bob")
	item := seedItem(f, t, nil)

	_, err := f.svc.UpdateItem(context.Background(), item.ID, ports.UpdateItemInput{
		Status: strPtr("resolved"),
	}, "user_2")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// The stored item must be untouched.
	if f.items.byID[item.ID].Status != domain.StatusActive {
		t.Error("item must not change when the caller is not the owner")
	}
}

func TestUpdateItem_InvalidStatus(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	item := seedItem(f, t, nil)

	_, err := f.svc.UpdateItem(context.Background(), item.ID, ports.UpdateItemInput{
		Status: strPtr("archived"),
	}, "user_1")
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem, got %v", err)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateItem(context.Background(), "missing1", ports.UpdateItemInput{}, "user_1")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteItem_Owner(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	item := seedItem(f, t, nil)

	if err := f.svc.DeleteItem(context.Background(), item.ID, "user_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.items.byID[item.ID]; ok {
		t.Error("item must be gone after delete")
	}
}

func TestDeleteItem_NonOwnerForbidden(t *testing.T) {
	f := newFixture()
	f.users.add("user_1", "alice")
	f.users.add("user_2", "bob")
	item := seedItem(f, t, nil)

	err := f.svc.DeleteItem(context.Background(), item.ID, "user_2")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := f.items.byID[item.ID]; !ok {
		t.Error("item must survive a forbidden delete")
	}
}

func TestGetItem_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetItem(context.Background(), "missing1")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
