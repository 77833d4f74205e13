package commentstore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	commentstore "github.com/redteahq/redtea/internal/app/store/comments"
	"github.com/redteahq/redtea/internal/domain/models"
	"github.com/redteahq/redtea/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Comment{
		PostID: primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Text:   "so relatable",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if c.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestStore_Create_EmptyText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Comment{PostID: primitive.NewObjectID()})
	if !errors.Is(err, commentstore.ErrEmptyText) {
		t.Errorf("got %v, want ErrEmptyText", err)
	}
}

func TestStore_ListByPost_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	postID := primitive.NewObjectID()
	now := time.Now()
	f.InsertComment(models.Comment{PostID: postID, Text: "second", CreatedAt: now})
	f.InsertComment(models.Comment{PostID: postID, Text: "first", CreatedAt: now.Add(-time.Hour)})
	f.InsertComment(models.Comment{PostID: primitive.NewObjectID(), Text: "other post"})

	comments, err := store.ListByPost(ctx, postID)
	if err != nil {
		t.Fatalf("ListByPost failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("expected oldest first, got %q then %q", comments[0].Text, comments[1].Text)
	}
}

func TestStore_CountByPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := commentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	postID := primitive.NewObjectID()
	f.InsertComment(models.Comment{PostID: postID})
	f.InsertComment(models.Comment{PostID: postID})

	count, err := store.CountByPost(ctx, postID)
	if err != nil {
		t.Fatalf("CountByPost failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}
