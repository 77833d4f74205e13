// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote types for post flags.
const (
	VoteGreen = "green"
	VoteRed   = "red"
	// VoteNone retracts an existing vote; it is never stored.
	VoteNone = "none"
)

// Vote is one user's flag on a post, embedded in Post.Voters.
// A user has at most one entry per post.
type Vote struct {
	UserID string `bson:"user_id" json:"user_id"` // voter's clerk_id
	Type   string `bson:"type" json:"type"`       // green | red
}

// Post is a story submitted by an approved user.
//
// GreenFlags and RedFlags are denormalized counts of the Voters entries of
// the corresponding type. They are only ever written together with Voters
// in a single update, so they never drift from the authoritative list.
type Post struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	Text   string  `bson:"text" json:"text"`
	Age    int     `bson:"age" json:"age"`
	City   string  `bson:"city" json:"city"`
	FileID *string `bson:"file_id,omitempty" json:"file_id,omitempty"` // optional attached media

	GreenFlags int    `bson:"green_flags" json:"green_flags"`
	RedFlags   int    `bson:"red_flags" json:"red_flags"`
	Voters     []Vote `bson:"voters" json:"voters"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
