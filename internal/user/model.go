package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account as stored. PasswordHash is an opaque PHC string; the
// raw password never appears here.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
