// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification lifecycle stages for identity-document review.
const (
	VerificationNone     = "none"
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// User represents one human account, keyed by the identity provider's
// stable ClerkID.
//
// Invariant: IsApproved is true if and only if VerificationStatus is
// "approved". Both fields are written together by the admin mutations.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID   string             `bson:"clerk_id" json:"clerk_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Pseudonym string             `bson:"pseudonym" json:"pseudonym"` // anonymized display handle

	// Storage object keys for the verification documents. Cleared on deny.
	SelfieID     *string `bson:"selfie_id,omitempty" json:"selfie_id,omitempty"`
	IDDocumentID *string `bson:"id_document_id,omitempty" json:"id_document_id,omitempty"`

	IsApproved             bool   `bson:"is_approved" json:"is_approved"`
	VerificationStatus     string `bson:"verification_status" json:"verification_status"` // none | pending | approved | rejected
	HasCompletedOnboarding bool   `bson:"has_completed_onboarding" json:"has_completed_onboarding"`

	IsSubscribed     bool   `bson:"is_subscribed,omitempty" json:"is_subscribed,omitempty"`
	SubscriptionPlan string `bson:"subscription_plan,omitempty" json:"subscription_plan,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidVerificationStatus reports whether s is one of the four lifecycle stages.
func IsValidVerificationStatus(s string) bool {
	switch s {
	case VerificationNone, VerificationPending, VerificationApproved, VerificationRejected:
		return true
	}
	return false
}
