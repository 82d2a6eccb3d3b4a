package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStats holds lifetime counters derived from completed activity
type UserStats struct {
	TotalCoinsEarned float64 `bson:"totalCoinsEarned" json:"totalCoinsEarned"`
	CurrentStreak    int     `bson:"currentStreak" json:"currentStreak"`
	LongestStreak    int     `bson:"longestStreak" json:"longestStreak"`
	BadgesEarned     int     `bson:"badgesEarned" json:"badgesEarned"`
}

// UserMining holds the live mining session state embedded in the profile.
// SessionRate is snapshotted from MiningRate when a session starts, so rate
// changes never apply retroactively to a running session.
type UserMining struct {
	IsMining            bool      `bson:"isMining" json:"isMining"`
	LastMiningStart     time.Time `bson:"lastMiningStart,omitempty" json:"lastMiningStart,omitempty"`
	CoinsMined          float64   `bson:"coinsMined" json:"coinsMined"`
	NextAvailable       time.Time `bson:"nextAvailable,omitempty" json:"nextAvailable,omitempty"`
	MiningRate          float64   `bson:"miningRate" json:"miningRate"`   // coins per hour, boosted by referrals
	SessionRate         float64   `bson:"sessionRate" json:"sessionRate"` // coins per hour for the active session
	TotalMiningSessions int       `bson:"totalMiningSessions" json:"totalMiningSessions"`
}

// UserProfile holds the user-editable display fields
type UserProfile struct {
	DisplayName string `bson:"displayName" json:"displayName"`
	Bio         string `bson:"bio" json:"bio"`
	AvatarURL   string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// UserSocial holds referral state
type UserSocial struct {
	ReferralCode   string `bson:"referralCode" json:"referralCode"`
	ReferredBy     string `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	ReferralsCount int    `bson:"referralsCount" json:"referralsCount"`
}

// User defines a user entity. Exactly one document exists per authenticated
// identity; it is created at signup confirmation and mutated for the account's
// lifetime.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Stats     UserStats          `bson:"stats" json:"stats"`
	Mining    UserMining         `bson:"mining" json:"mining"`
	Profile   UserProfile        `bson:"profile" json:"profile"`
	Social    UserSocial         `bson:"social" json:"social"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
