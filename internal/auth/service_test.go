package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/password"
	"warehouse/internal/token"
	"warehouse/internal/user"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long")

func newTestService() (*Service, *user.MemoryRepository, *token.Codec) {
	repo := user.NewMemoryRepository()
	codec := token.NewCodec(testSecret)
	return NewService(repo, password.NewHasher(), codec), repo, codec
}

func validSignUp(email string) SignUpInput {
	return SignUpInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  "longenough1",
	}
}

func TestSignUp_TokenMatchesPersistedAccount(t *testing.T) {
	t.Parallel()

	svc, repo, codec := newTestService()
	ctx := context.Background()

	tokens, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	claims, err := codec.Decode(tokens.AccessToken)
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestSignUp_PasswordIsHashedBeforePersistence(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")

	require.NoError(t, password.NewHasher().Verify(ctx, stored.PasswordHash, "longenough1"))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	in := validSignUp("a@b.com")
	in.FirstName = "Other"
	in.Password = "differentpass2"
	_, err = svc.SignUp(ctx, in)
	assert.ErrorIs(t, err, user.ErrExists)
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	svc, _, codec := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	tokens, err := svc.SignIn(ctx, SignInInput{Email: "a@b.com", Password: "longenough1"})
	require.NoError(t, err)

	claims, err := codec.Decode(tokens.AccessToken)
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, claims.IssuedAt.Time.After(now))
	assert.False(t, claims.ExpiresAt.Time.Before(now))
	assert.Equal(t, token.AccessTokenTTL, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
}

func TestSignIn_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, SignInInput{Email: "a@b.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnknownEmailStillHashes(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	hasher := &recordingHasher{}
	svc := NewService(repo, hasher, token.NewCodec(testSecret))

	_, err := svc.SignIn(context.Background(), SignInInput{Email: "missing@b.com", Password: "whatever123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The verification cost is paid against the dummy hash even though no
	// account exists.
	require.Len(t, hasher.verified, 1)
	assert.Equal(t, dummyPasswordHash, hasher.verified[0])
}

func TestSignIn_UnknownEmailIndistinguishableFromWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	_, unknownErr := svc.SignIn(ctx, SignInInput{Email: "missing@b.com", Password: "longenough1"})
	_, wrongErr := svc.SignIn(ctx, SignInInput{Email: "a@b.com", Password: "wrongpassword"})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
}

func TestSignIn_RepositoryFaultIsNotInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := NewService(failingRepo{}, &recordingHasher{}, token.NewCodec(testSecret))

	_, err := svc.SignIn(context.Background(), SignInInput{Email: "a@b.com", Password: "longenough1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, stored.ID, "brandnewpass2"))

	_, err = svc.SignIn(ctx, SignInInput{Email: "a@b.com", Password: "longenough1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, SignInInput{Email: "a@b.com", Password: "brandnewpass2"})
	assert.NoError(t, err)
}

func TestChangePassword_UnknownAccount(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()

	err := svc.ChangePassword(context.Background(), uuid.New(), "brandnewpass2")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestAccount(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, validSignUp("a@b.com"))
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	account, err := svc.Account(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", account.FirstName)

	_, err = svc.Account(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)
}

// recordingHasher counts verifications and always reports a mismatch.
type recordingHasher struct {
	verified []string
}

func (h *recordingHasher) Hash(ctx context.Context, pw string) (string, error) {
	return "$argon2id$fake", nil
}

func (h *recordingHasher) Verify(ctx context.Context, encodedHash, candidate string) error {
	h.verified = append(h.verified, encodedHash)
	return password.ErrMismatch
}

// failingRepo reports an unclassified storage fault from every operation.
type failingRepo struct{}

var errStorage = errors.New("connection reset")

func (failingRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return user.User{}, errStorage
}

func (failingRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return user.User{}, errStorage
}

func (failingRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, errStorage
}

func (failingRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return errStorage
}
