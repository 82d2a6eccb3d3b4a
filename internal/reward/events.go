package reward

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamKey is the Redis Stream all reward events are published to
const StreamKey = "reward:events"

// GroupName is the consumer group that fans events out to WebSocket hubs
const GroupName = "reward:dispatch"

// Event represents a reward event published to Redis Stream
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// MiningCompletedPayload carries session finalization data
type MiningCompletedPayload struct {
	CoinsMined float64 `json:"coinsMined"`
	TotalCoins float64 `json:"totalCoins"`
}

// BadgeEarnedPayload carries a badge-earned announcement
type BadgeEarnedPayload struct {
	BadgeID   string `json:"badgeId"`
	BadgeName string `json:"badgeName"`
}

// StreakMilestonePayload carries a streak milestone crossing
type StreakMilestonePayload struct {
	Streak int `json:"streak"`
}

// NotificationPayload carries a persisted notification record
type NotificationPayload struct {
	NotificationID string `json:"notificationId"`
	Message        string `json:"message"`
	Kind           string `json:"kind"`
}

// NewEvent creates a new event with timestamp
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:      eventType,
		Payload:   payloadBytes,
		Timestamp: time.Now().Unix(),
	}, nil
}

// MarshalEvent marshals an event to JSON string for Redis Stream
func MarshalEvent(event *Event) (string, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalEvent unmarshals a JSON string to an Event
func UnmarshalEvent(data string) (*Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// PublishEvent appends a reward event to the stream, tagged with the user it
// belongs to. Returns an error when Redis is unavailable so callers can fall
// back to direct broadcast.
func PublishEvent(userID string, event *Event) error {
	if rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	data, err := MarshalEvent(event)
	if err != nil {
		return err
	}

	return rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{
			"userId": userID,
			"data":   data,
		},
	}).Err()
}
