package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"minehub/db"
	"minehub/internal/reward"
	"minehub/models"
	"minehub/websocket"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StreakMilestones are the streak lengths that trigger a milestone
// notification, fired once per crossing
var StreakMilestones = []int{3, 7, 15, 30, 60, 100}

const streakDateLayout = "2006-01-02"

// IsMilestone reports whether a streak length is a milestone
func IsMilestone(streak int) bool {
	for _, m := range StreakMilestones {
		if streak == m {
			return true
		}
	}
	return false
}

// ComputeStreak counts consecutive completed days anchored at asOf. A streak
// still counts when today is not yet completed but yesterday is; the walk
// stops at the first gap.
func ComputeStreak(completedDates []string, asOf time.Time) int {
	set := make(map[string]bool, len(completedDates))
	for _, d := range completedDates {
		set[d] = true
	}

	day := asOf
	if !set[day.Format(streakDateLayout)] {
		day = day.AddDate(0, 0, -1)
		if !set[day.Format(streakDateLayout)] {
			return 0
		}
	}

	streak := 0
	for set[day.Format(streakDateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// RecordCompletion upserts the day record for at and merges the activity tag
// into its activity set. The upsert is idempotent: calling it again for the
// same day adds the tag but does not re-fire milestone side effects. Returns
// the current streak length.
func RecordCompletion(ctx context.Context, userID primitive.ObjectID, at time.Time, activityTag string) (int, error) {
	day := at.Format(streakDateLayout)
	now := time.Now()

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	streakColl := db.MongoDatabase.Collection("streak_days")

	res := streakColl.FindOneAndUpdate(dbCtx,
		bson.M{"userId": userID, "date": day},
		bson.M{
			"$set":         bson.M{"completed": true, "updatedAt": now},
			"$addToSet":    bson.M{"activities": activityTag},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before),
	)

	newlyCompleted := false
	var before models.StreakDay
	if err := res.Decode(&before); err != nil {
		if err == mongo.ErrNoDocuments {
			newlyCompleted = true
		} else {
			return 0, fmt.Errorf("failed to record streak day: %w", err)
		}
	} else if !before.Completed {
		newlyCompleted = true
	}

	cursor, err := streakColl.Find(dbCtx, bson.M{"userId": userID, "completed": true})
	if err != nil {
		return 0, fmt.Errorf("failed to load streak history: %w", err)
	}
	defer cursor.Close(dbCtx)

	var days []models.StreakDay
	if err := cursor.All(dbCtx, &days); err != nil {
		return 0, fmt.Errorf("failed to decode streak history: %w", err)
	}

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	streak := ComputeStreak(dates, at)

	_, err = db.MongoDatabase.Collection("users").UpdateOne(dbCtx,
		bson.M{"_id": userID},
		bson.M{
			"$set": bson.M{"stats.currentStreak": streak, "updatedAt": now},
			"$max": bson.M{"stats.longestStreak": streak},
		},
	)
	if err != nil {
		log.Printf("Error updating streak stats: %v", err)
	}

	if newlyCompleted && IsMilestone(streak) {
		message := fmt.Sprintf("%d-day streak! Keep it going.", streak)
		if err := Notify(ctx, userID, models.NotificationStreakMilestone, message, map[string]interface{}{
			"streak": streak,
		}); err != nil {
			log.Printf("Error emitting milestone notification: %v", err)
		}

		CheckBadgeConditions(ctx, userID, ActionStreakMilestone, map[string]interface{}{
			"streak": streak,
		})

		payload := reward.StreakMilestonePayload{Streak: streak}
		if event, err := reward.NewEvent("streak_milestone", payload); err == nil {
			if err := reward.PublishEvent(userID.Hex(), event); err != nil {
				websocket.BroadcastRewardEvent(models.RewardEvent{
					Type:      "streak_milestone",
					UserID:    userID.Hex(),
					Streak:    streak,
					Timestamp: now,
				})
			}
		}
	}

	return streak, nil
}

// GetStreakHistory returns the user's most recent day records
func GetStreakHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.StreakDay, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"date": -1}).SetLimit(limit)
	cursor, err := db.MongoDatabase.Collection("streak_days").Find(dbCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch streak history: %w", err)
	}
	defer cursor.Close(dbCtx)

	var days []models.StreakDay
	if err := cursor.All(dbCtx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode streak history: %w", err)
	}
	return days, nil
}
