package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"warehouse/internal/auth"
	"warehouse/internal/user"
)

// Classify walks the causal chain, most specific cause first, and returns
// the kind of the first recognized cause. Unrecognized causes (including the
// unexpected variants of lower layers) do not stop the scan; an exhausted
// chain is UnexpectedError. Pure and deterministic for a given chain.
func Classify(err error) Kind {
	if err == nil {
		return Ok
	}

	for cause := err; cause != nil; cause = errors.Unwrap(cause) {
		switch {
		case isValidationCause(cause):
			return ValidationFailed
		case cause == auth.ErrInvalidCredentials:
			return AuthenticationFailed
		case cause == user.ErrNotFound:
			return ObjectNotFound
		case cause == user.ErrExists:
			return ObjectAlreadyExists
		}
	}

	return UnexpectedError
}

// isValidationCause checks the single node, not the chain below it, so the
// walk order in Classify stays authoritative.
func isValidationCause(cause error) bool {
	_, ok := cause.(validation.Errors)
	return ok
}
