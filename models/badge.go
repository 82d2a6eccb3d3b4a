package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BadgeTask is one step towards earning a badge
type BadgeTask struct {
	ID          string     `bson:"id" json:"id"`
	Description string     `bson:"description" json:"description"`
	Completed   bool       `bson:"completed" json:"completed"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// UserBadge is a catalog badge instantiated for one user at account creation.
// Progress is derived from the task list; IsEarned is set exactly once when
// progress reaches 100 and is never reverted.
type UserBadge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	BadgeID     string             `bson:"badgeId" json:"badgeId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	Category    string             `bson:"category" json:"category"` // "achievement", "mining", "streak", "social"
	Tasks       []BadgeTask        `bson:"tasks" json:"tasks"`
	Progress    float64            `bson:"progress" json:"progress"`
	IsEarned    bool               `bson:"isEarned" json:"isEarned"`
	EarnedAt    *time.Time         `bson:"earnedAt,omitempty" json:"earnedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
