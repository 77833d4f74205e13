// Package userstore manages user accounts and the verification workflow.
//
// The privileged mutations (Approve, Deny) enforce the admin allow-list
// themselves and append to the audit trail, so no caller can mutate
// verification state without leaving a record.
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/redteahq/redtea/internal/app/store/adminactions"
	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/normalize"
	"github.com/redteahq/redtea/internal/app/system/pseudonym"
	"github.com/redteahq/redtea/internal/domain/models"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateClerkID is returned when an insert races with another
	// insert for the same identity.
	ErrDuplicateClerkID = errors.New("a user with this clerk_id already exists")
)

type Store struct {
	c      *mongo.Collection
	admins *adminlist.List
	audit  *adminactions.Store
}

// New creates a user Store. The allow-list gates Approve and Deny.
func New(db *mongo.Database, admins *adminlist.List) *Store {
	return &Store{
		c:      db.Collection("users"),
		admins: admins,
		audit:  adminactions.New(db),
	}
}

// UpsertOnLogin creates the user record on first login and refreshes
// profile fields on subsequent logins. Verification state is never touched
// here, so repeated logins are idempotent with respect to the workflow.
func (s *Store) UpsertOnLogin(ctx context.Context, clerkID, email, name string) (models.User, error) {
	if clerkID == "" {
		return models.User{}, ErrNotFound
	}
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"email":      normalize.Email(email),
			"name":       normalize.Name(name),
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"clerk_id":                 clerkID,
			"pseudonym":                pseudonym.FromUserID(clerkID),
			"is_approved":              false,
			"verification_status":      models.VerificationNone,
			"has_completed_onboarding": false,
			"created_at":               now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"clerk_id": clerkID}, update, opts).Decode(&u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateClerkID
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByClerkID loads a user by the identity provider's ID.
func (s *Store) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SubmitDocuments attaches verification document keys to the user. Either
// key may be nil to leave that slot unchanged. Any submission moves a user
// in the "none" or "rejected" stage to "pending"; approved users keep their
// status.
func (s *Store) SubmitDocuments(ctx context.Context, clerkID string, selfieKey, idDocKey *string) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if selfieKey != nil {
		set["selfie_id"] = *selfieKey
	}
	if idDocKey != nil {
		set["id_document_id"] = *idDocKey
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"clerk_id": clerkID}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if u.VerificationStatus == models.VerificationNone || u.VerificationStatus == models.VerificationRejected {
		err = s.c.FindOneAndUpdate(ctx,
			bson.M{"clerk_id": clerkID, "verification_status": u.VerificationStatus},
			bson.M{"$set": bson.M{"verification_status": models.VerificationPending}},
			opts,
		).Decode(&u)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	return &u, nil
}

// FinishOnboarding marks the onboarding flow complete. Like a document
// submission, it moves a user in the "none" or "rejected" stage to
// "pending"; approved users keep their status.
func (s *Store) FinishOnboarding(ctx context.Context, clerkID string) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": bson.M{"has_completed_onboarding": true, "updated_at": time.Now()}},
		opts,
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if u.VerificationStatus == models.VerificationNone || u.VerificationStatus == models.VerificationRejected {
		_, err = s.c.UpdateOne(ctx,
			bson.M{"clerk_id": clerkID, "verification_status": u.VerificationStatus},
			bson.M{"$set": bson.M{"verification_status": models.VerificationPending}},
		)
		return err
	}
	return nil
}

// Approve marks a user's verification as approved. Only allow-listed admins
// may call this; unauthorized callers get ErrUnauthorized with no side
// effects. One audit record is written per successful call.
func (s *Store) Approve(ctx context.Context, adminID string, userID primitive.ObjectID) error {
	if err := s.admins.Require(adminID); err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"is_approved":         true,
			"verification_status": models.VerificationApproved,
			"updated_at":          time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return s.audit.Log(ctx, models.AdminAction{
		AdminID:      adminID,
		ActionType:   models.ActionApproveUser,
		TargetUserID: &userID,
	})
}

// Deny rejects a user's verification. The record is kept but the document
// keys are cleared, so the user can resubmit later. Gated and audited like
// Approve.
func (s *Store) Deny(ctx context.Context, adminID string, userID primitive.ObjectID) error {
	if err := s.admins.Require(adminID); err != nil {
		return err
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set": bson.M{
				"is_approved":         false,
				"verification_status": models.VerificationRejected,
				"updated_at":          time.Now(),
			},
			"$unset": bson.M{
				"selfie_id":      "",
				"id_document_id": "",
			},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return s.audit.Log(ctx, models.AdminAction{
		AdminID:      adminID,
		ActionType:   models.ActionDenyUser,
		TargetUserID: &userID,
	})
}

// DeleteByClerkID removes the user record. Deleting a missing user is a
// no-op, so identity-provider deletion webhooks can be retried safely.
func (s *Store) DeleteByClerkID(ctx context.Context, clerkID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"clerk_id": clerkID})
	return err
}

// ListWithVerificationStatus returns users in one verification stage,
// newest first, skipping offset rows and returning at most limit.
// Admin-gated: this listing exposes document keys.
func (s *Store) ListWithVerificationStatus(ctx context.Context, adminID, status string, limit, offset int64) ([]models.User, error) {
	if err := s.admins.Require(adminID); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if status != "" {
		filter["verification_status"] = normalize.Status(status)
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cursor, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListApproved returns all approved users.
func (s *Store) ListApproved(ctx context.Context) ([]models.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{"is_approved": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MarkSubscribed records the user's subscription state. Cancellations pass
// subscribed=false with an empty plan.
func (s *Store) MarkSubscribed(ctx context.Context, clerkID string, subscribed bool, plan string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": bson.M{
			"is_subscribed":     subscribed,
			"subscription_plan": plan,
			"updated_at":        time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
