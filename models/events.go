package models

import "time"

// RewardEvent is pushed to connected clients over WebSocket so every device of
// a user converges on server state without polling
type RewardEvent struct {
	Type      string    `json:"type"` // "mining_started", "mining_completed", "badge_earned", "streak_milestone", "referral_applied", "notification"
	UserID    string    `json:"userId"`
	Message   string    `json:"message,omitempty"`
	BadgeID   string    `json:"badgeId,omitempty"`
	BadgeName string    `json:"badgeName,omitempty"`
	Coins     float64   `json:"coins,omitempty"`
	Streak    int       `json:"streak,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
