package services

import (
	"context"
	"errors"
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

var ErrBadgeNotFound = errors.New("badge not found")

// InstantiateBadges writes the full catalog for a new user. On a partial
// failure the user's badge docs are removed so a retry starts clean.
func InstantiateBadges(ctx context.Context, userID primitive.ObjectID) error {
	catalog := BadgeCatalog()
	now := time.Now()

	docs := make([]interface{}, 0, len(catalog))
	for _, cb := range catalog {
		tasks := make([]models.BadgeTask, 0, len(cb.Tasks))
		for _, t := range cb.Tasks {
			tasks = append(tasks, models.BadgeTask{ID: t.ID, Description: t.Description})
		}
		docs = append(docs, models.UserBadge{
			ID:          primitive.NewObjectID(),
			UserID:      userID,
			BadgeID:     cb.ID,
			Name:        cb.Name,
			Description: cb.Description,
			Icon:        cb.Icon,
			Category:    cb.Category,
			Tasks:       tasks,
			CreatedAt:   now,
		})
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	coll := db.MongoDatabase.Collection("user_badges")
	if _, err := coll.InsertMany(dbCtx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		coll.DeleteMany(dbCtx, bson.M{"userId": userID})
		return fmt.Errorf("failed to instantiate badge catalog: %w", err)
	}
	return nil
}

// Progress computes percent of tasks completed
func Progress(tasks []models.BadgeTask) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}

// ApplyTask marks a task on the badge and recomputes progress. Earned badges
// never change. earnedNow is true exactly on the transition to 100%.
func ApplyTask(badge *models.UserBadge, taskID string, completed bool, now time.Time) (changed bool, earnedNow bool, found bool) {
	idx := -1
	for i := range badge.Tasks {
		if badge.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, false, false
	}

	if badge.IsEarned {
		return false, false, true
	}
	if badge.Tasks[idx].Completed == completed {
		return false, false, true
	}

	badge.Tasks[idx].Completed = completed
	if completed {
		t := now
		badge.Tasks[idx].CompletedAt = &t
	} else {
		badge.Tasks[idx].CompletedAt = nil
	}

	badge.Progress = Progress(badge.Tasks)
	if badge.Progress >= 100 {
		badge.IsEarned = true
		t := now
		badge.EarnedAt = &t
		earnedNow = true
	}
	return true, earnedNow, true
}

// UpdateBadgeTask persists a task completion. A missing badge or task aborts
// with ErrBadgeNotFound and no mutation. The badge-earned notification fires
// exactly on the earning transition and never again.
func UpdateBadgeTask(ctx context.Context, userID primitive.ObjectID, badgeID, taskID string, completed bool) (*models.UserBadge, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coll := db.MongoDatabase.Collection("user_badges")

	var badge models.UserBadge
	err := coll.FindOne(dbCtx, bson.M{"userId": userID, "badgeId": badgeID}).Decode(&badge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to load badge: %w", err)
	}

	changed, earnedNow, found := ApplyTask(&badge, taskID, completed, time.Now())
	if !found {
		return nil, ErrBadgeNotFound
	}
	if !changed {
		return &badge, nil
	}

	_, err = coll.UpdateOne(dbCtx,
		bson.M{"_id": badge.ID},
		bson.M{"$set": bson.M{
			"tasks":    badge.Tasks,
			"progress": badge.Progress,
			"isEarned": badge.IsEarned,
			"earnedAt": badge.EarnedAt,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update badge: %w", err)
	}

	if earnedNow {
		_, err := db.MongoDatabase.Collection("users").UpdateOne(dbCtx,
			bson.M{"_id": userID},
			bson.M{"$inc": bson.M{"stats.badgesEarned": 1}},
		)
		if err != nil {
			log.Printf("Error updating badge stats: %v", err)
		}

		message := fmt.Sprintf("Badge earned: %s", badge.Name)
		if err := Notify(ctx, userID, models.NotificationBadgeEarned, message, map[string]interface{}{
			"badgeId": badge.BadgeID,
		}); err != nil {
			log.Printf("Error emitting badge notification: %v", err)
		}

		RecordActivity(ctx, userID, "badge_earned", map[string]interface{}{
			"badgeId": badge.BadgeID,
		})

		payload := reward.BadgeEarnedPayload{BadgeID: badge.BadgeID, BadgeName: badge.Name}
		if event, err := reward.NewEvent("badge_earned", payload); err == nil {
			if err := reward.PublishEvent(userID.Hex(), event); err != nil {
				websocket.BroadcastRewardEvent(models.RewardEvent{
					Type:      "badge_earned",
					UserID:    userID.Hex(),
					BadgeID:   badge.BadgeID,
					BadgeName: badge.Name,
					Timestamp: time.Now(),
				})
			}
		}
	}

	return &badge, nil
}

// CheckBadgeConditions evaluates the rule table for an action against the
// user's not-yet-earned badges. Earned badges are skipped entirely. Failures
// are logged, never fatal to the triggering operation.
func CheckBadgeConditions(ctx context.Context, userID primitive.ObjectID, action Action, metadata map[string]interface{}) {
	rules := RulesForAction(action)
	if len(rules) == 0 {
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := db.MongoDatabase.Collection("user_badges").Find(dbCtx,
		bson.M{"userId": userID, "isEarned": false})
	if err != nil {
		log.Printf("Error loading badges for condition check: %v", err)
		return
	}
	defer cursor.Close(dbCtx)

	var badges []models.UserBadge
	if err := cursor.All(dbCtx, &badges); err != nil {
		log.Printf("Error decoding badges for condition check: %v", err)
		return
	}

	pending := make(map[string]*models.UserBadge, len(badges))
	for i := range badges {
		pending[badges[i].BadgeID] = &badges[i]
	}

	for _, rule := range rules {
		badge, ok := pending[rule.BadgeID]
		if !ok {
			continue
		}
		if taskCompleted(badge, rule.TaskID) {
			continue
		}
		if rule.Predicate != nil && !rule.Predicate(metadata) {
			continue
		}
		if _, err := UpdateBadgeTask(ctx, userID, rule.BadgeID, rule.TaskID, true); err != nil {
			log.Printf("Error applying badge rule %s/%s: %v", rule.BadgeID, rule.TaskID, err)
		}
	}
}

func taskCompleted(badge *models.UserBadge, taskID string) bool {
	for _, t := range badge.Tasks {
		if t.ID == taskID {
			return t.Completed
		}
	}
	return false
}

// ListBadges returns the user's badges in catalog order
func ListBadges(ctx context.Context, userID primitive.ObjectID) ([]models.UserBadge, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := db.MongoDatabase.Collection("user_badges").Find(dbCtx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer cursor.Close(dbCtx)

	var badges []models.UserBadge
	if err := cursor.All(dbCtx, &badges); err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}
	return badges, nil
}
