// Package password hashes and verifies credentials with Argon2id.
//
// Hashes are encoded as PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<digest>
//
// so verification re-reads the parameters from the stored string and never
// depends on the currently configured ones.
package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMismatch covers every verification failure, parse errors included, so
// callers cannot tell a malformed stored hash from a wrong password.
var ErrMismatch = errors.New("password does not match")

const (
	defaultMemory      uint32 = 15000
	defaultIterations  uint32 = 2
	defaultParallelism uint8  = 1
	saltLength                = 16
	keyLength          uint32 = 32
)

type Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

func NewHasher() *Hasher {
	return &Hasher{
		memory:      defaultMemory,
		iterations:  defaultIterations,
		parallelism: defaultParallelism,
	}
}

// Hash derives a fresh-salt Argon2id digest of password. The derivation runs
// on its own goroutine; if ctx is done first the result is discarded.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		encoded string
		err     error
	}

	done := make(chan result, 1)
	go func() {
		encoded, err := h.hash(password)
		done <- result{encoded: encoded, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.encoded, res.err
	}
}

// Verify recomputes the digest of candidate using the parameters embedded in
// encodedHash and compares in constant time. Same offload rules as Hash.
func (h *Hasher) Verify(ctx context.Context, encodedHash, candidate string) error {
	done := make(chan error, 1)
	go func() {
		done <- verify(encodedHash, candidate)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (h *Hasher) hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, keyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

func verify(encodedHash, candidate string) error {
	memory, iterations, parallelism, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return ErrMismatch
	}

	computed := argon2.IDKey([]byte(candidate), salt, iterations, memory, parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, computed) != 1 {
		return ErrMismatch
	}

	return nil
}

func decodeHash(encodedHash string) (memory, iterations uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errors.New("malformed phc string")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parse version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.New("unsupported argon2 version")
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parse params: %w", err)
	}

	salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode digest: %w", err)
	}

	return memory, iterations, parallelism, salt, key, nil
}
