package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/gruzdev-dev/codex-users/core/domain"
	"github.com/gruzdev-dev/codex-users/core/ports"
)

// InMemoryUserRepo keeps users in a map guarded by a single mutex. Readers
// and writers take the same lock. Values are cloned on the way in and out.
type InMemoryUserRepo struct {
	mu    sync.Mutex
	users map[uint64]domain.User
}

var _ ports.UserRepository = (*InMemoryUserRepo)(nil)

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{
		users: make(map[uint64]domain.User),
	}
}

func (r *InMemoryUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := user.Clone()
	return &found, nil
}

func (r *InMemoryUserRepo) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = user.Clone()
	return nil
}

func (r *InMemoryUserRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *InMemoryUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Clone())
	}
	r.mu.Unlock()

	slices.SortFunc(users, func(a, b domain.User) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return users, nil
}
