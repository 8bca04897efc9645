// Package repository declares the storage interfaces the rest of the app
// depends on. Concrete implementations live in subpackages (mongo).
//
// WHY AN INTERFACE?
// The service layer shouldn't care whether users live in MongoDB, Postgres,
// or a map in memory. Depending on this interface (not on *mongo.Store)
// means tests can substitute an in-memory fake, and the storage backend can
// change without touching business logic.
package repository

import (
	"context"

	"github.com/nahid/user-auth-api/internal/model"
)

// ListOptions controls pagination for List.
type ListOptions struct {
	Limit int // 0 means the implementation's default cap
}

// UserRepository is the minimal capability set the app needs from the user
// store: exact-match lookups, a single insert, and a bounded list. No query
// language beyond equality filters is assumed.
//
// Lookup methods return apperror.ErrNotFound (wrapped) when no document
// matches; any other error is a store failure.
type UserRepository interface {
	// FindByEmail returns the user whose email matches exactly.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns the user with the given store-assigned ID (hex string).
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmailAndID returns the user matching BOTH fields. Used when
	// resolving token claims — a token is only honoured if its email and
	// ID still point at the same record.
	FindByEmailAndID(ctx context.Context, email, id string) (*model.User, error)

	// Insert stores a new user and fills in the store-assigned ID.
	Insert(ctx context.Context, user *model.User) error

	// List returns up to opts.Limit users.
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
}
