package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
)

// UserRepository is a process-local user store for development and tests.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	byName  map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
		now:     time.Now,
	}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[emailKey(u.Email)]; ok {
		return repo.ErrDuplicateEmail
	}
	if _, ok := r.byName[u.Username]; ok {
		return repo.ErrDuplicateUsername
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[emailKey(u.Email)] = u.ID
	r.byName[u.Username] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.get(id)
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.get(id)
}

func (r *UserRepository) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.FullName = u.FullName
	stored.Bio = u.Bio
	stored.ProfilePicture = u.ProfilePicture
	stored.UpdatedAt = r.now().UTC()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// get must be called with r.mu held.
func (r *UserRepository) get(id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
