// Package apperr collapses arbitrary internal failure chains into the small,
// stable set of error kinds the API exposes.
package apperr

import "net/http"

// Kind is the closed enumeration of externally visible outcomes. The wire
// code is the integer value itself.
type Kind int

const (
	Ok Kind = iota
	UnexpectedError
	ValidationFailed
	AuthenticationFailed
	ObjectNotFound
	ObjectAlreadyExists
)

// AppError is the boundary payload: {"code": <int>, "message": <string>}.
type AppError struct {
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

func New(kind Kind) AppError {
	return AppError{Code: kind, Message: kind.Message()}
}

// Message is total over Kind; no boundary fallback is ever needed.
func (k Kind) Message() string {
	switch k {
	case Ok:
		return ""
	case UnexpectedError:
		return "Unknown error"
	case ValidationFailed:
		return "Invalid arguments"
	case AuthenticationFailed:
		return "Invalid login or password"
	case ObjectNotFound:
		return "Requested object not found"
	case ObjectAlreadyExists:
		return "Provided object already exists"
	default:
		return "Unknown error"
	}
}

// Status maps each kind to its HTTP status. Total, same as Message.
func (k Kind) Status() int {
	switch k {
	case Ok:
		return http.StatusOK
	case UnexpectedError:
		return http.StatusInternalServerError
	case ValidationFailed:
		return http.StatusBadRequest
	case AuthenticationFailed:
		return http.StatusUnauthorized
	case ObjectNotFound:
		return http.StatusNotFound
	case ObjectAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
