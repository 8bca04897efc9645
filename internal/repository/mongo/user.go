package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nahid/user-auth-api/internal/apperror"
	"github.com/nahid/user-auth-api/internal/model"
	"github.com/nahid/user-auth-api/internal/repository"
)

// compile-time check that *Store implements repository.UserRepository
var _ repository.UserRepository = (*Store)(nil)

// defaultListLimit caps List when the caller doesn't specify one.
// Matches the original API's behaviour of never returning an unbounded
// result set.
const defaultListLimit = 1000

// findOne runs a FindOne with the given filter and translates
// mongo.ErrNoDocuments into an apperror not-found, so callers never see
// driver-specific errors. `key` only feeds the not-found message.
func (s *Store) findOne(ctx context.Context, filter bson.M, key string) (*model.User, error) {
	var u model.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("mongo: finding user: %w", err)
	}
	return &u, nil
}

// FindByEmail returns the user whose email matches exactly (case-sensitive —
// see the policy note on model.User).
func (s *Store) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, email)
}

// FindByID returns the user with the given hex ObjectID.
// An unparseable ID can't match any document, so it reports not-found
// rather than a store error.
func (s *Store) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("user", id)
	}
	return s.findOne(ctx, bson.M{"_id": oid}, id)
}

// FindByEmailAndID returns the user matching both the email and the ID.
// Used to resolve token claims: both fields must still agree with the
// stored record for the token to be honoured.
func (s *Store) FindByEmailAndID(ctx context.Context, email, id string) (*model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("user", id)
	}
	return s.findOne(ctx, bson.M{"_id": oid, "email": email}, id)
}

// Insert stores a new user document and fills in the store-assigned ID.
//
// The User's zero ObjectID is omitted from the document (bson omitempty),
// so the server generates the _id. InsertOne hands it back in the result
// and we copy it into the caller's struct — from here on user.ID.Hex() is
// the user's stable identifier.
func (s *Store) Insert(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("mongo: inserting user: %w", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("mongo: unexpected inserted ID type %T", res.InsertedID)
	}
	user.ID = oid

	return nil
}

// List returns up to opts.Limit users (default 1000).
//
// CURSORS:
// Find returns a cursor — a server-side result stream. cursor.All drains it
// into a slice and closes it. For bigger collections you'd iterate with
// cursor.Next instead of loading everything, but a bounded list is fine here.
func (s *Store) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]model.User, 0)
	for cursor.Next(ctx) && len(users) < limit {
		var u model.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("mongo: decoding user: %w", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating users: %w", err)
	}

	return users, nil
}
