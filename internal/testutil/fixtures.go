package testutil

import (
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/redteahq/redtea/internal/domain/models"
)

// Fixtures inserts pre-built documents for tests that need existing data.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
	n  int
}

// NewFixtures creates a fixture helper bound to the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

// InsertUser inserts u, filling in an ID, ClerkID, email, pseudonym, and
// timestamps when left zero. Returns the stored document.
func (f *Fixtures) InsertUser(u models.User) models.User {
	f.t.Helper()
	n := f.next()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.ClerkID == "" {
		u.ClerkID = fmt.Sprintf("user_fixture%d", n)
	}
	if u.Email == "" {
		u.Email = fmt.Sprintf("fixture%d@example.com", n)
	}
	if u.Pseudonym == "" {
		u.Pseudonym = fmt.Sprintf("TestHandle%d", n)
	}
	if u.VerificationStatus == "" {
		u.VerificationStatus = models.VerificationNone
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	ctx, cancel := TestContext()
	defer cancel()
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert fixture user: %v", err)
	}
	return u
}

// ApprovedUser inserts a user in the approved state.
func (f *Fixtures) ApprovedUser() models.User {
	f.t.Helper()
	return f.InsertUser(models.User{
		IsApproved:             true,
		VerificationStatus:     models.VerificationApproved,
		HasCompletedOnboarding: true,
	})
}

// PendingUser inserts a user awaiting review, with both documents submitted.
func (f *Fixtures) PendingUser() models.User {
	f.t.Helper()
	selfie := "uploads/2026/08/selfie-fixture"
	idDoc := "uploads/2026/08/id-fixture"
	return f.InsertUser(models.User{
		VerificationStatus: models.VerificationPending,
		SelfieID:           &selfie,
		IDDocumentID:       &idDoc,
	})
}

// InsertPost inserts p, filling in an ID, author, and timestamps when left
// zero. Returns the stored document.
func (f *Fixtures) InsertPost(p models.Post) models.Post {
	f.t.Helper()
	n := f.next()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.UserID.IsZero() {
		p.UserID = primitive.NewObjectID()
	}
	if p.Text == "" {
		p.Text = fmt.Sprintf("fixture post %d", n)
	}
	if p.Voters == nil {
		p.Voters = []models.Vote{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	ctx, cancel := TestContext()
	defer cancel()
	if _, err := f.db.Collection("posts").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("insert fixture post: %v", err)
	}
	return p
}

// InsertComment inserts c, filling in an ID and timestamp when left zero.
func (f *Fixtures) InsertComment(c models.Comment) models.Comment {
	f.t.Helper()
	n := f.next()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Text == "" {
		c.Text = fmt.Sprintf("fixture comment %d", n)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	ctx, cancel := TestContext()
	defer cancel()
	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("insert fixture comment: %v", err)
	}
	return c
}
