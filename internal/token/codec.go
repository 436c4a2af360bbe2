// Package token signs and verifies the bearer tokens that carry identity
// claims between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenTTL is the fixed validity window of an access token.
const AccessTokenTTL = 24 * time.Hour

// ErrInvalidToken covers every decode failure: bad signature, wrong
// algorithm, malformed token, or an expired exp claim.
var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims is the signed payload of an access token.
type AccessClaims struct {
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes access tokens with HMAC-SHA256. The secret is
// sensitive: it must never be logged or surfaced in error messages.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode issues a token for the account valid for AccessTokenTTL from now.
// A failure here is a keying or serialization defect, never user-caused.
func (c *Codec) Encode(userID uuid.UUID, email string) (string, error) {
	now := time.Now().UTC()

	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature and the temporal claims and returns the
// embedded identity.
func (c *Codec) Decode(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
