package rest

import (
	"context"
	"net/http"
	"strings"

	"warehouse/internal/apperr"
	"warehouse/internal/token"
)

type contextKey struct{}

var claimsKey contextKey

// ClaimsFromContext returns the verified claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.AccessClaims)
	return claims, ok
}

// Middleware rejects requests without a valid bearer token. A failure here
// concerns an already-issued token and is reported as unauthorized, never as
// the sign-in invalid-credentials condition.
func Middleware(codec *token.Codec, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, apperr.New(apperr.AuthenticationFailed))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeJSON(w, http.StatusUnauthorized, apperr.New(apperr.AuthenticationFailed))
			return
		}

		claims, err := codec.Decode(strings.TrimSpace(parts[1]))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, apperr.New(apperr.AuthenticationFailed))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}
