package reward

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hub interface for forwarding stream events to connected clients
type Hub interface {
	BroadcastToUser(userID string, event *Event)
}

// StreamConsumer handles Redis Stream consumer group operations
type StreamConsumer struct {
	rdb          *redis.Client
	ctx          context.Context
	consumerName string
	hub          Hub
}

// NewStreamConsumer creates a new StreamConsumer instance
func NewStreamConsumer(hub Hub) *StreamConsumer {
	rdb := GetRedisClient()
	if rdb == nil {
		return nil
	}

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("consumer-%s-%d", hostname, os.Getpid())

	return &StreamConsumer{
		rdb:          rdb,
		ctx:          GetContext(),
		consumerName: consumerName,
		hub:          hub,
	}
}

// Start begins consuming reward events from the stream
func (sc *StreamConsumer) Start() error {
	if sc == nil || sc.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}

	// Create consumer group if it doesn't exist
	err := sc.rdb.XGroupCreateMkStream(sc.ctx, StreamKey, GroupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		// Continue anyway, group might already exist
	}

	go sc.consumeLoop()

	return nil
}

// consumeLoop continuously reads from the stream and forwards to WebSocket clients
func (sc *StreamConsumer) consumeLoop() {
	for {
		streams, err := sc.rdb.XReadGroup(sc.ctx, &redis.XReadGroupArgs{
			Group:    GroupName,
			Consumer: sc.consumerName,
			Streams:  []string{StreamKey, ">"},
			Count:    100,
			Block:    time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				if err := sc.processMessage(message); err != nil {
					continue
				}

				// ACK message after successful processing
				sc.rdb.XAck(sc.ctx, StreamKey, GroupName, message.ID)
			}
		}

		go sc.reclaimPendingMessages()
	}
}

// processMessage decodes a stream message and forwards it to the hub
func (sc *StreamConsumer) processMessage(message redis.XMessage) error {
	userID, ok := message.Values["userId"].(string)
	if !ok {
		return fmt.Errorf("invalid message format: missing userId field")
	}

	eventData, ok := message.Values["data"].(string)
	if !ok {
		return fmt.Errorf("invalid message format: missing data field")
	}

	event, err := UnmarshalEvent(eventData)
	if err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	sc.hub.BroadcastToUser(userID, event)

	return nil
}

// reclaimPendingMessages reclaims pending messages that haven't been ACKed
func (sc *StreamConsumer) reclaimPendingMessages() {
	pending, err := sc.rdb.XPendingExt(sc.ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  GroupName,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		return
	}

	for _, p := range pending {
		// Reclaim messages stalled for more than 30 seconds
		if p.Idle < 30*time.Second {
			continue
		}

		claimed, err := sc.rdb.XClaim(sc.ctx, &redis.XClaimArgs{
			Stream:   StreamKey,
			Group:    GroupName,
			Consumer: sc.consumerName,
			MinIdle:  30 * time.Second,
			Messages: []string{p.ID},
		}).Result()
		if err != nil {
			continue
		}

		for _, message := range claimed {
			if err := sc.processMessage(message); err != nil {
				continue
			}
			sc.rdb.XAck(sc.ctx, StreamKey, GroupName, message.ID)
		}
	}
}
