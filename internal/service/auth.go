// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT)
//	                   ↘ PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Registration: duplicate check, password hashing, persistence
//   - Login: credential verification, token issuance
//   - Encapsulate all auth rules in one place, away from HTTP concerns
//   - Be easily testable with fake dependencies
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nahid/user-auth-api/internal/apperror"
	"github.com/nahid/user-auth-api/internal/auth"
	"github.com/nahid/user-auth-api/internal/model"
	"github.com/nahid/user-auth-api/internal/repository"
)

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue JWTs at login
//   - passwords  *auth.PasswordService      → bcrypt hashing/verification
//   - logger     *slog.Logger               → structured logging
//   - tokenTTL   time.Duration              → access-token lifetime (0 = 1h default)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
	tokenTTL  time.Duration
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph. tokenTTL <= 0
// falls back to auth.DefaultTokenTTL at issue time.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new user account.
//
// FLOW: received → duplicate check → hash → insert → re-read → summary.
//
//  1. Look up the email. If a record exists, fail with DuplicateEmail
//     BEFORE doing any bcrypt work — hashing costs ~250ms and there's no
//     point paying it for a doomed request.
//  2. Hash the password.
//  3. Insert the record; the store assigns the ID.
//  4. Re-read the persisted record by that ID and build the response from
//     what the store returned — not from our in-memory copy — so the caller
//     always sees the canonical stored fields.
//
// Returns only {name, email}; the hash and the internal ID never leave
// this layer.
//
// KNOWN RACE:
// Steps 1 and 3 are separate store calls, so two concurrent registrations
// for the same email can both pass the check. The unique index on email
// (created by the mongo store at startup) makes the second insert fail
// instead of creating a duplicate — that failure surfaces as a store error.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.UserSummary, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		// A record came back — the email is taken.
		return nil, apperror.DuplicateEmail()
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking for existing email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: inserting user: %w", err)
	}

	created, err := s.users.FindByID(ctx, user.ID.Hex())
	if err != nil {
		// Insert reported success but the record can't be read back.
		return nil, fmt.Errorf("service/auth: reading back created user %s: %w", user.ID.Hex(), err)
	}

	s.logger.Info("user registered",
		slog.String("userID", created.ID.Hex()),
		slog.String("email", created.Email),
	)

	return created.Summary(), nil
}

// Login verifies credentials and issues an access token.
//
// ANTI-ENUMERATION:
// "No such user" and "wrong password" both return the identical
// InvalidCredentials error — same kind, same message. If the two paths
// were distinguishable (different message, different status), the login
// endpoint would let an attacker probe which emails have accounts.
// bcrypt's constant-time comparison keeps the password check itself from
// leaking through timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", fmt.Errorf("service/auth: looking up user for login: %w", err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return "", apperror.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.Email, user.ID.Hex(), s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID.Hex(), err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID.Hex()),
		slog.String("email", user.Email),
	)

	return token, nil
}
