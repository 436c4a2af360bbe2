package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Adapters wrap these sentinels so the boundary can tell a uniqueness
// violation and a missing row apart from any other storage fault.
var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

// Repository is the storage port for accounts. Any engine works as long as
// Create reports ErrExists on an email collision and the lookups report
// ErrNotFound on a missing row.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}
