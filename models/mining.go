package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mining session log statuses
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// MiningSession is the per-session log entry. The live session state lives on
// the user document; log entries record history and survive finalization.
type MiningSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID   string             `bson:"sessionId" json:"sessionId"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Status      string             `bson:"status" json:"status"`
	Rate        float64            `bson:"rate" json:"rate"` // coins per hour
	CoinsMined  float64            `bson:"coinsMined" json:"coinsMined"`
	StartedAt   time.Time          `bson:"startedAt" json:"startedAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
