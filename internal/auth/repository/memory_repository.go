package repository

import (
	"context"
	"sync"
	"time"

	authdomain "leafscan-backend/internal/auth/domain"

	"github.com/google/uuid"
)

// memoryUserRepository is an in-process UserRepository for local runs
// without PostgreSQL. Uniqueness of email is checked under the same lock as
// the insert.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*authdomain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*authdomain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return authdomain.ErrEmailTaken
	}

	user.ID = uuid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u := *stored
	return &u, nil
}
