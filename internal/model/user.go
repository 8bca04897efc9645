// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered user account as stored in MongoDB.
//
// The `bson:"..."` tags tell the MongoDB driver how to map struct fields
// to document fields, the same way `json:"..."` tags drive encoding/json.
// A field can carry both — and the two can disagree, which we exploit below.
//
// WHY bson.ObjectID FOR THE ID?
// MongoDB assigns every inserted document an _id (an ObjectID) unless you
// provide one. We deliberately let the store assign it: the ID is an opaque,
// stable identifier owned by the database, and our code only ever passes it
// around as a string (ID.Hex()). The `omitempty` option keeps a zero ObjectID
// out of the insert document so the server generates one.
//
// WHY json:"-" ON PasswordHash?
// The bcrypt hash must NEVER appear in an API response. json:"-" makes
// encoding/json skip the field entirely — even if a handler accidentally
// serializes a full User, the hash stays out of the response body.
//
// EMAIL CASE POLICY:
// Emails are matched exactly, byte for byte. "Ada@x.com" and "ada@x.com"
// are two different accounts. The unique index in the mongo repository
// enforces uniqueness under the same exact-match rule.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name"          json:"name"`  // display name, mutable, non-unique
	Email        string        `bson:"email"         json:"email"` // login handle, unique
	PasswordHash string        `bson:"password_hash" json:"-"`
	CreatedAt    time.Time     `bson:"created_at"    json:"createdAt"`
}

// UserSummary is the only user shape returned by registration and /me.
// It exists so the hash and the internal ID cannot leak by accident —
// there is simply no field to put them in.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary converts a full User record into its public summary.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		Name:  u.Name,
		Email: u.Email,
	}
}
