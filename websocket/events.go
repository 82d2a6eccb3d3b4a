package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"minehub/internal/reward"
	"minehub/models"

	"github.com/gorilla/websocket"
)

// RewardClient represents a client connected for reward updates
type RewardClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON safely writes JSON data to the reward client's WebSocket connection
func (rc *RewardClient) SafeWriteJSON(v interface{}) error {
	rc.writeMu.Lock()
	defer rc.writeMu.Unlock()
	return rc.Conn.WriteJSON(v)
}

// Global reward hub; events are targeted at the owning user's connections so a
// session finalized on one device shows up on every other device of that user
var (
	rewardClients = make(map[*RewardClient]bool)
	rewardMutex   sync.RWMutex
)

// RegisterRewardClient registers a client for reward updates
func RegisterRewardClient(client *RewardClient) {
	rewardMutex.Lock()
	defer rewardMutex.Unlock()
	rewardClients[client] = true
	log.Printf("Reward client registered. Total clients: %d", len(rewardClients))
}

// UnregisterRewardClient removes a client from reward updates
func UnregisterRewardClient(client *RewardClient) {
	rewardMutex.Lock()
	defer rewardMutex.Unlock()
	delete(rewardClients, client)
	client.Conn.Close()
	log.Printf("Reward client unregistered. Total clients: %d", len(rewardClients))
}

// BroadcastRewardEvent sends a reward event to every connection owned by the
// event's user. Used directly when the Redis Stream pipeline is unavailable.
func BroadcastRewardEvent(event models.RewardEvent) {
	rewardMutex.RLock()
	defer rewardMutex.RUnlock()

	message := map[string]interface{}{
		"type":      event.Type,
		"userId":    event.UserID,
		"timestamp": event.Timestamp,
	}

	if event.Message != "" {
		message["message"] = event.Message
	}
	if event.BadgeID != "" {
		message["badgeId"] = event.BadgeID
	}
	if event.BadgeName != "" {
		message["badgeName"] = event.BadgeName
	}
	if event.Coins != 0 {
		message["coins"] = event.Coins
	}
	if event.Streak != 0 {
		message["streak"] = event.Streak
	}

	for client := range rewardClients {
		if client.UserID != event.UserID {
			continue
		}
		if err := client.SafeWriteJSON(message); err != nil {
			log.Printf("Error broadcasting reward event to client: %v", err)
			// Remove client if write fails
			go UnregisterRewardClient(client)
		}
	}
}

// GetRewardClientsCount returns the number of connected reward clients
func GetRewardClientsCount() int {
	rewardMutex.RLock()
	defer rewardMutex.RUnlock()
	return len(rewardClients)
}

// StreamBridge adapts the hub to the Redis Stream consumer
type StreamBridge struct{}

// BroadcastToUser forwards a consumed stream event to the user's connections
func (StreamBridge) BroadcastToUser(userID string, event *reward.Event) {
	rewardMutex.RLock()
	defer rewardMutex.RUnlock()

	message := map[string]interface{}{
		"type":      event.Type,
		"userId":    userID,
		"payload":   json.RawMessage(event.Payload),
		"timestamp": time.Unix(event.Timestamp, 0),
	}

	for client := range rewardClients {
		if client.UserID != userID {
			continue
		}
		if err := client.SafeWriteJSON(message); err != nil {
			log.Printf("Error forwarding stream event to client: %v", err)
			go UnregisterRewardClient(client)
		}
	}
}
