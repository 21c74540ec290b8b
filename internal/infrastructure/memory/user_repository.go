// Package memory holds process-local repository implementations used for
// development (STORAGE_DRIVER=memory) and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
)

type UserRepository struct {
	mu   sync.RWMutex
	byID map[string]*entity.User
	now  func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]*entity.User{}, now: time.Now}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	if err := repository.Validate(u); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return repository.ErrDuplicate
	}
	if r.taken(u) {
		return repository.ErrDuplicate
	}
	if err := r.checkFollowees(u); err != nil {
		return err
	}
	now := r.now().UTC()
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = u.Clone()
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		return u.Clone(), nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Username == entity.NormalizeUsername(username) })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == entity.NormalizeEmail(email) })
}

func (r *UserRepository) Save(_ context.Context, u *entity.User) error {
	if err := repository.Validate(u); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok || cur.Version != u.Version {
		return repository.ErrConflict
	}
	if r.taken(u) {
		return repository.ErrDuplicate
	}
	if err := r.checkFollowees(u); err != nil {
		return err
	}
	u.Version++
	u.UpdatedAt = r.now().UTC()
	r.byID[u.ID] = u.Clone()
	return nil
}

func (r *UserRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

// taken reports whether another record already holds u's username or email.
// Callers hold the lock.
func (r *UserRepository) taken(u *entity.User) bool {
	for id, other := range r.byID {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return true
		}
	}
	return false
}

// checkFollowees mirrors the foreign key on user_follows. Callers hold the lock.
func (r *UserRepository) checkFollowees(u *entity.User) error {
	for _, id := range u.Following() {
		if id == u.ID {
			continue
		}
		if _, ok := r.byID[id]; !ok {
			return repository.ErrNotFound
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
