package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write
// identity values in the context — no collisions with other packages.
type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller extracted from a valid bearer token.
type Identity struct {
	Email  string
	UserID string
}

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header,
// validates it, and stores the Identity in the request context. Missing or
// invalid tokens get 401 Unauthorized and the chain stops.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth. The second return is false on anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Email != ""
}

// extractIdentity pulls the bearer token off the request and validates it.
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, errors.New("auth: missing Authorization header")
	}

	// RFC 6750: the scheme is case-insensitive, the token is not.
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Identity{}, errors.New("auth: Authorization header is not a bearer token")
	}

	claims, err := tokens.Validate(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return Identity{}, err
	}

	return Identity{Email: claims.Subject, UserID: claims.UserID}, nil
}
