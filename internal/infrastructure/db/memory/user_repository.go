package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/reclaimhq/lostfound-system/internal/core/domain"
)

type UserRepository struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	byUsername map[string]string // username -> id, case-sensitive
	nextID     int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[string]*domain.User),
		byUsername: make(map[string]string),
	}
}

// Create assigns a fresh id and inserts the user. The uniqueness check and the
// insert happen under one lock section, so concurrent registrations of the
// same username cannot both succeed.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, domain.ErrUserExists
	}

	r.nextID++
	clone := *user
	clone.ID = strconv.Itoa(r.nextID)
	r.users[clone.ID] = &clone
	r.byUsername[clone.Username] = clone.ID

	result := clone
	return &result, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *UserRepository) ListAll(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		all = append(all, &clone)
	}
	return all, nil
}
