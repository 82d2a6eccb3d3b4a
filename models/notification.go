package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationMiningComplete  = "mining_complete"
	NotificationBadgeEarned     = "badge_earned"
	NotificationStreakMilestone = "streak_milestone"
	NotificationReferral        = "referral"
)

// Notification is a user-facing message record. Read/dismiss lifecycle is
// driven by the consuming client, not by the emitting side.
type Notification struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID     `bson:"userId" json:"userId"`
	Message     string                 `bson:"message" json:"message"`
	Type        string                 `bson:"type" json:"type"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead      bool                   `bson:"isRead" json:"isRead"`
	IsDismissed bool                   `bson:"isDismissed" json:"isDismissed"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}
