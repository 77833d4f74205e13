// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records one transaction from the payment provider (Polar).
type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	PaymentProvider string             `bson:"payment_provider" json:"payment_provider"`
	PaymentID       string             `bson:"payment_id" json:"payment_id"`
	Status          string             `bson:"status" json:"status"` // pending | completed | failed
	Amount          int64              `bson:"amount" json:"amount"` // cents
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
