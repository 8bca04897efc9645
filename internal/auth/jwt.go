// Package auth provides JWT token issuance/validation and password hashing
// for the user API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. POST /auth registers a user (password stored as a bcrypt hash)
// 2. POST /login verifies the password and issues a JWT access token
// 3. On protected calls, middleware reads the Authorization header,
//    validates the JWT, resolves the user, and puts it in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (email, user ID, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without the
// secret key.
//
// JWT STRUCTURE (three base64url-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims (data) → {"sub":"ada@x.com","id":"...","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The server can verify the signature without any DB lookup — just the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid when the caller
// doesn't ask for a specific duration. After expiry the client must log in
// again — there is no refresh or revocation mechanism in this app; logout
// is simply the client discarding its token.
const DefaultTokenTTL = time.Hour

// Token validation failure kinds. All of them wrap ErrInvalidToken, so
// boundary code can collapse every subtype into a single 401 with
// errors.Is(err, ErrInvalidToken), while log lines keep the specific kind.
// Clients must never learn WHICH check failed — only logs may.
var (
	ErrInvalidToken = errors.New("invalid token")

	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenMissingClaim = fmt.Errorf("%w: missing required claim", ErrInvalidToken)
)

// Claims is the JWT payload. It embeds jwt.RegisteredClaims, which covers
// the standard fields (Subject, ExpiresAt, IssuedAt, ...), and adds one
// custom claim.
//
// CLAIM LAYOUT:
//   - "sub" (Subject)  → the user's email, the login handle
//   - "id"             → the user's store-assigned ID as a hex string
//   - "exp"            → expiry, set from the TTL at issue time
//
// The fields are statically declared — no free-form map access. Validate
// checks presence of both identity claims explicitly; a structurally valid,
// correctly signed token without them is still rejected.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The secret
// is process-wide, read-only after construction, and shared by every
// request — rotating it requires a restart, which also invalidates every
// outstanding token.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue creates and signs a JWT access token for the given identity.
//
// ttl <= 0 selects DefaultTokenTTL (1 hour), so callers that don't care
// about lifetimes just pass 0. Tests that need an already-expired token
// use IssueWithExpiry instead.
//
// Signing algorithm: HS256 (HMAC-SHA256)
//   - Symmetric: same key for signing and verifying
//   - Fast and simple — good for single-server deployments
//   - Switch to RS256 if multiple services ever need to verify without
//     sharing the signing secret
func (s *TokenService) Issue(email, userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return s.IssueWithExpiry(email, userID, time.Now().Add(ttl))
}

// IssueWithExpiry creates a token with an explicit expiry instant.
// Used by Issue and by tests that need a token expiring in the past.
func (s *TokenService) IssueWithExpiry(email, userID string, expiresAt time.Time) (string, error) {
	c := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// VALIDATION CHECKS:
//   - Signature is valid (wasn't tampered with, signed with OUR secret)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//   - Token is not expired (ExpiresAt is in the future, and is present)
//   - Both identity claims ("sub" and "id") are non-empty
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
//
// The returned error is always one of the ErrToken* sentinels (each wrapping
// ErrInvalidToken). Callers at the HTTP boundary treat them all as 401.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC before touching the secret
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Translate jwt library errors into our sentinel kinds
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	// Presence checks for the identity claims. A token can be perfectly
	// signed and unexpired yet useless without them.
	if c.Subject == "" || c.UserID == "" {
		return nil, ErrTokenMissingClaim
	}

	return c, nil
}
