// Package auth turns raw sign-up/sign-in credentials into durable account
// state and issued access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"warehouse/internal/password"
	"warehouse/internal/token"
	"warehouse/internal/user"
)

// dummyPasswordHash is verified against whenever the email lookup finds no
// account, so sign-in pays the same hashing cost whether or not the email
// exists. This only equalizes the hashing phase; the lookup itself still
// takes a different path for a missing row.
const dummyPasswordHash = "$argon2id$v=19$m=15000,t=2,p=1$" +
	"gZiV/M1gPc22ElAH/Jh1Hw$" +
	"CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// PasswordHasher is the hashing port. Verify reports password.ErrMismatch
// for any parse failure or digest mismatch.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, encodedHash, candidate string) error
}

var _ PasswordHasher = (*password.Hasher)(nil)

// SignUpInput carries a raw password; it must not be logged, persisted, or
// retained beyond the hashing call.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type SignInInput struct {
	Email    string
	Password string
}

// Tokens is the wire-facing result. Access token only: refresh tokens are
// deferred and must not silently appear here.
type Tokens struct {
	AccessToken string `json:"access_token"`
}

type Service struct {
	users  user.Repository
	hasher PasswordHasher
	codec  *token.Codec
}

func NewService(users user.Repository, hasher PasswordHasher, codec *token.Codec) *Service {
	return &Service{users: users, hasher: hasher, codec: codec}
}

// SignUp creates an account and issues its first access token. The password
// is hashed before anything touches storage.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Tokens, error) {
	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return Tokens{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return Tokens{}, fmt.Errorf("create user: %w", err)
	}

	access, err := s.codec.Encode(created.ID, created.Email)
	if err != nil {
		return Tokens{}, fmt.Errorf("encode access token: %w", err)
	}

	return Tokens{AccessToken: access}, nil
}

// SignIn validates the credentials and issues an access token.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (Tokens, error) {
	u, err := s.validateCredentials(ctx, in)
	if err != nil {
		return Tokens{}, err
	}

	access, err := s.codec.Encode(u.ID, u.Email)
	if err != nil {
		return Tokens{}, fmt.Errorf("encode access token: %w", err)
	}

	return Tokens{AccessToken: access}, nil
}

func (s *Service) validateCredentials(ctx context.Context, in SignInInput) (user.User, error) {
	expectedHash := dummyPasswordHash
	var found *user.User

	u, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		expectedHash = u.PasswordHash
		found = &u
	case errors.Is(err, user.ErrNotFound):
		// keep the dummy hash; verification below still runs
	default:
		return user.User{}, fmt.Errorf("look up user: %w", err)
	}

	if err := s.hasher.Verify(ctx, expectedHash, in.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return user.User{}, fmt.Errorf("verify password: %w", ErrInvalidCredentials)
		}
		return user.User{}, fmt.Errorf("verify password: %w", err)
	}

	if found == nil {
		return user.User{}, fmt.Errorf("unknown email: %w", ErrInvalidCredentials)
	}

	return *found, nil
}

// ChangePassword rehashes and overwrites the stored hash for the account.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return nil
}

// Account loads the account behind an already-authenticated identity.
func (s *Service) Account(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, fmt.Errorf("load account: %w", err)
	}

	return u, nil
}
