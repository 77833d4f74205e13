// Package paymentstore records transactions reported by the payment
// provider's webhooks.
package paymentstore

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
	return &Store{c: db.Collection("payments")}
}

// Create inserts a payment record.
func (s *Store) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.PaymentPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// UpdateStatus sets the status of the provider's payment record.
func (s *Store) UpdateStatus(ctx context.Context, provider, paymentID, status string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"payment_provider": provider, "payment_id": paymentID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}

// ByUser returns a user's payments, newest first.
func (s *Store) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
