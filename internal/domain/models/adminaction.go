// internal/domain/models/adminaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin action types.
const (
	ActionApproveUser = "approve_user"
	ActionDenyUser    = "deny_user"
	ActionDeletePost  = "delete_post"
)

// AdminAction is one entry in the append-only audit trail of privileged
// mutations. Records are never updated or deleted.
type AdminAction struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AdminID      string              `bson:"admin_id" json:"admin_id"` // actor's clerk_id
	ActionType   string              `bson:"action_type" json:"action_type"`
	TargetUserID *primitive.ObjectID `bson:"target_user_id,omitempty" json:"target_user_id,omitempty"`
	TargetPostID *primitive.ObjectID `bson:"target_post_id,omitempty" json:"target_post_id,omitempty"`
	Timestamp    time.Time           `bson:"timestamp" json:"timestamp"`
}
