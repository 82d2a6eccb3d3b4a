package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"minehub/db"
	"minehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordActivity appends to the user's activity log. Best-effort: a failed
// append is logged and never fails the triggering operation.
func RecordActivity(ctx context.Context, userID primitive.ObjectID, action string, metadata map[string]interface{}) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	activity := models.Activity{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Action:    action,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	if _, err := db.MongoDatabase.Collection("activities").InsertOne(dbCtx, activity); err != nil {
		log.Printf("Error recording activity %s: %v", action, err)
	}
}

// ListActivities returns the user's most recent activity log entries
func ListActivities(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := db.MongoDatabase.Collection("activities").Find(dbCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer cursor.Close(dbCtx)

	var activities []models.Activity
	if err := cursor.All(dbCtx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}
