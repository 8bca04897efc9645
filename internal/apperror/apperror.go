// Package apperror defines the application's error taxonomy.
//
// WHY SENTINEL ERRORS?
// The service layer needs to communicate error KINDS (duplicate email,
// invalid credentials, ...) without knowing anything about HTTP. Handlers
// then map kinds to status codes with errors.Is(). Sentinels + wrapping
// via %w give us exactly that: the kind travels up the call stack inside
// the error chain, and any amount of fmt.Errorf context can be layered
// on top without losing it.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail: registration with an email that already has an
	// account. A client error (400), not a conflict worth retrying.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrInvalidCredentials: login failed. Deliberately covers BOTH
	// "no such user" and "wrong password" — callers must not be able to
	// tell which, or the login endpoint becomes an account-enumeration
	// oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized: a protected route was hit without a usable bearer
	// token. Every token failure mode collapses into this one.
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError pairs a sentinel kind with a human-readable message.
type AppError struct {
	Err     error  // sentinel kind, matched with errors.Is
	Message string // safe to show to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// DuplicateEmail returns the registration-rejection error.
// The message matches what clients of the original API expect.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "Email already registered",
	}
}

// InvalidCredentials returns the single, uniform login-failure error.
// Both failure paths (unknown email, wrong password) MUST go through
// this constructor so the message and kind are byte-identical.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

// Unauthorized returns the uniform 401 error for protected routes.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "valid authentication required",
	}
}
