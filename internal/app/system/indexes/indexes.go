// Package indexes creates the MongoDB indexes the application depends on.
// EnsureAll runs during startup and is idempotent, so repeated deploys are
// safe.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index used by the stores. Index creation in
// MongoDB is a no-op when an identical index already exists.
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	specs := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "clerk_id", Value: 1}},
					Options: options.Index().SetUnique(true).SetName("clerk_id_unique"),
				},
				{
					Keys:    bson.D{{Key: "is_approved", Value: 1}},
					Options: options.Index().SetName("is_approved"),
				},
				{
					Keys:    bson.D{{Key: "verification_status", Value: 1}},
					Options: options.Index().SetName("verification_status"),
				},
			},
		},
		{
			collection: "posts",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "created_at", Value: -1}},
					Options: options.Index().SetName("created_at_desc"),
				},
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}},
					Options: options.Index().SetName("user_id"),
				},
			},
		},
		{
			collection: "comments",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
					Options: options.Index().SetName("post_id_created_at"),
				},
			},
		},
		{
			collection: "admin_actions",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "timestamp", Value: -1}},
					Options: options.Index().SetName("timestamp_desc"),
				},
			},
		},
		{
			collection: "payments",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}},
					Options: options.Index().SetName("user_id"),
				},
			},
		},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
		if log != nil {
			log.Debug("ensured indexes",
				zap.String("collection", spec.collection),
				zap.Int("count", len(spec.models)),
			)
		}
	}
	return nil
}
