package auth

import "errors"

// ErrInvalidCredentials is the single condition reported for a wrong
// password and for an unknown email alike; callers are never told which
// factor failed.
var ErrInvalidCredentials = errors.New("invalid login or password")
