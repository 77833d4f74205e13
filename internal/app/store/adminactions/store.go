// Package adminactions records the append-only audit trail of privileged
// mutations. Every approve, deny, and post removal writes one record here.
package adminactions

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/redteahq/redtea/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admin_actions")}
}

// Log appends one audit record. ID and Timestamp are filled in when zero.
func (s *Store) Log(ctx context.Context, action models.AdminAction) error {
	if action.ID.IsZero() {
		action.ID = primitive.NewObjectID()
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, action)
	return err
}

// Recent returns the newest audit records, most recent first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.AdminAction, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.AdminAction
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ByTargetUser returns audit records affecting one user, most recent first.
func (s *Store) ByTargetUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AdminAction, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{"target_user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []models.AdminAction
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// CountByType returns how many records exist for one action type.
func (s *Store) CountByType(ctx context.Context, actionType string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"action_type": actionType})
}
