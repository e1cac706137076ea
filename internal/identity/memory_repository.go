package identity

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]User
	byID    map[string]string // id -> normalized email
}

// NewMemoryRepository builds an in-memory user store for tests and local
// development. The mutex gives it the same at-most-one-winner guarantee the
// database unique index provides for concurrent registrations.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byEmail: make(map[string]User),
		byID:    make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return User{}, ErrDuplicateEmail
	}
	user.Email = email
	r.byEmail[email] = user
	r.byID[user.ID] = email
	return user, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byEmail[email], nil
}

func (r *memoryRepository) UpdatePassword(_ context.Context, id string, newHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user := r.byEmail[email]
	user.PasswordHash = newHash
	user.UpdatedAt = time.Now().UTC()
	r.byEmail[email] = user
	return nil
}

func (r *memoryRepository) UpdateProfile(_ context.Context, id string, patch ProfilePatch) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	user := r.byEmail[email]
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	user.UpdatedAt = time.Now().UTC()
	r.byEmail[email] = user
	return user, nil
}
