package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nahid/user-auth-api/internal/apperror"
	"github.com/nahid/user-auth-api/internal/model"
	"github.com/nahid/user-auth-api/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "user", u), ANY package that knows the string "user"
// can read or shadow your value. Using a package-private type prevents
// collisions: only THIS package can create a key of type contextKey, so only
// this package can read or write user values in the context.
type contextKey string

const userKey contextKey = "user"

// bearerPrefix is the expected Authorization scheme. Matching is
// case-insensitive per RFC 7235 ("Bearer", "bearer", "BEARER" all work).
const bearerPrefix = "bearer "

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It extracts the bearer token from the Authorization header, validates the
// JWT, resolves the identity against the user store, and stores the resolved
// *model.User in the request context. Any failure along the way — missing
// header, wrong scheme, empty token, invalid/expired/tampered token, claims
// that don't match a stored user — returns the SAME 401 body and stops the
// chain. The specific cause goes to the log, never to the client.
//
// WHY RESOLVE AGAINST THE STORE?
// The token alone proves the claims were signed by us and haven't expired.
// It does NOT prove the user still exists. Matching BOTH the email and the
// ID against the store means a token for a deleted or re-created account
// stops working immediately, even though it's cryptographically valid.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler that wraps it. Chi applies them in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticate(r, tokens, users)
			if err != nil {
				// Log the internal cause; the response stays generic.
				logger.Warn("request not authenticated",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request is anonymous. On RequireAuth-protected
// routes it always returns (user, true) — the middleware rejected the request
// before the handler otherwise.
//
// Usage in handlers:
//
//	user, ok := auth.UserFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// authenticate extracts, validates, and resolves the bearer token.
//
// FAILURE LADDER (each rung collapses to 401 for the client):
//  1. No Authorization header
//  2. Scheme isn't Bearer, or the token text after it is empty
//  3. Token invalid — any subtype (malformed/signature/expired/missing claim)
//  4. No stored user matches both the email and the ID in the claims
func authenticate(r *http.Request, tokens *TokenService, users repository.UserRepository) (*model.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.New("missing Authorization header")
	}

	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return nil, errors.New("Authorization scheme is not Bearer")
	}

	tokenStr := strings.TrimSpace(header[len(bearerPrefix):])
	if tokenStr == "" {
		return nil, errors.New("empty bearer token")
	}

	claims, err := tokens.Validate(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := users.FindByEmailAndID(r.Context(), claims.Subject, claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errors.New("token claims do not match a stored user")
		}
		return nil, err
	}

	return user, nil
}
