package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreakDay is one entry per calendar day per user. A day counts as completed
// once at least one qualifying activity is recorded for it.
type StreakDay struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Date       string             `bson:"date" json:"date"` // "2006-01-02"
	Completed  bool               `bson:"completed" json:"completed"`
	Activities []string           `bson:"activities" json:"activities"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
