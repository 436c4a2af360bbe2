package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps accounts in a map. It backs tests and local runs
// without Postgres; it honors the same sentinel contract as the SQL adapter.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]User
	byEmail map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return User{}, fmt.Errorf("insert user %q: %w", u.Email, ErrExists)
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return User{}, fmt.Errorf("query user: %w", ErrNotFound)
	}

	return u, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return User{}, fmt.Errorf("query user: %w", ErrNotFound)
	}

	return r.byID[id], nil
}

func (r *MemoryRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("update password hash: %w", ErrNotFound)
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u

	return nil
}
