// Package rest is the HTTP boundary: it validates request shapes, invokes
// the authentication service, and serializes every failure through the
// closed error-kind table.
package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	"warehouse/internal/apperr"
	"warehouse/internal/auth"
)

const maxJSONBodyBytes = 1 << 20

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := body.Validate(); err != nil {
		h.writeFailure(w, fmt.Errorf("validate sign-up request: %w", err))
		return
	}

	tokens, err := h.service.SignUp(r.Context(), auth.SignUpInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokens)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := body.Validate(); err != nil {
		h.writeFailure(w, fmt.Errorf("validate sign-in request: %w", err))
		return
	}

	tokens, err := h.service.SignIn(r.Context(), auth.SignInInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// Me returns the profile behind the bearer token. Requires Middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apperr.New(apperr.AuthenticationFailed))
		return
	}

	account, err := h.service.Account(r.Context(), claims.UserID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		ID:        account.ID.String(),
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
	})
}

// ChangePassword rehashes and persists a new password for the token's
// account. Requires Middleware.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, apperr.New(apperr.AuthenticationFailed))
		return
	}

	var body changePasswordRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := body.Validate(); err != nil {
		h.writeFailure(w, fmt.Errorf("validate change-password request: %w", err))
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, body.Password); err != nil {
		h.writeFailure(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	kind := apperr.Classify(err)
	if kind == apperr.UnexpectedError {
		sentry.CaptureException(err)
	}

	writeJSON(w, kind.Status(), apperr.New(kind))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, apperr.ValidationFailed.Status(), apperr.New(apperr.ValidationFailed))
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
