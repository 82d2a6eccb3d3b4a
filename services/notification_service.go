package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minehub/db"
	"minehub/internal/reward"
	"minehub/models"
	"minehub/websocket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notify persists a notification record and pushes it to the user's connected
// devices. Delivery rides the Redis Stream when available, falling back to a
// direct hub broadcast.
func Notify(ctx context.Context, userID primitive.ObjectID, ntype, message string, metadata map[string]interface{}) error {
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		Type:      ntype,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := db.MongoDatabase.Collection("notifications").InsertOne(dbCtx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	payload := reward.NotificationPayload{
		NotificationID: n.ID.Hex(),
		Message:        message,
		Kind:           ntype,
	}
	if event, err := reward.NewEvent("notification", payload); err == nil {
		if err := reward.PublishEvent(userID.Hex(), event); err != nil {
			websocket.BroadcastRewardEvent(models.RewardEvent{
				Type:      "notification",
				UserID:    userID.Hex(),
				Message:   message,
				Timestamp: n.CreatedAt,
			})
		}
	}

	return nil
}

// ListNotifications returns the user's notifications, newest first. Dismissed
// ones are hidden unless asked for.
func ListNotifications(ctx context.Context, userID primitive.ObjectID, includeDismissed bool) ([]models.Notification, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	if !includeDismissed {
		filter["isDismissed"] = false
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50)
	cursor, err := db.MongoDatabase.Collection("notifications").Find(dbCtx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(dbCtx)

	var notifications []models.Notification
	if err := cursor.All(dbCtx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read
func MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return setNotificationFlag(ctx, userID, notificationID, bson.M{"isRead": true})
}

// DismissNotification hides a notification from the default listing
func DismissNotification(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	return setNotificationFlag(ctx, userID, notificationID, bson.M{"isDismissed": true})
}

func setNotificationFlag(ctx context.Context, userID, notificationID primitive.ObjectID, fields bson.M) error {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := db.MongoDatabase.Collection("notifications").UpdateOne(dbCtx,
		bson.M{"_id": notificationID, "userId": userID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification for the user
func MarkAllNotificationsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := db.MongoDatabase.Collection("notifications").UpdateMany(dbCtx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}
