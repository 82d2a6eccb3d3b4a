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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mining constants. A session runs a fixed 24-hour window; accrual is linear
// over the window at the rate snapshotted when the session started.
const (
	DailyReward        = 3.0
	SessionDuration    = 24 * time.Hour
	CheckpointInterval = 10 * time.Second

	// BaseMiningRate is coins per hour for an unboosted account
	BaseMiningRate = DailyReward / 24
)

var (
	ErrCooldownActive = errors.New("mining session not yet available")
	ErrAlreadyMining  = errors.New("mining session already active")
)

// MiningService owns the session lifecycle: start gate, periodic checkpoints
// and finalization
type MiningService struct {
	live *reward.LiveStore
	quit chan struct{}
}

var miningService *MiningService

// InitMiningService creates the singleton and starts the checkpoint loop
func InitMiningService() *MiningService {
	miningService = &MiningService{
		live: reward.NewLiveStore(),
		quit: make(chan struct{}),
	}
	go miningService.run()
	return miningService
}

// GetMiningService returns the singleton service
func GetMiningService() *MiningService {
	return miningService
}

// Stop terminates the checkpoint loop
func (s *MiningService) Stop() {
	close(s.quit)
}

// Accrued computes the coins earned for a session started at start, as of
// now, at ratePerHour coins per hour. Accrual is linear and capped at the
// full session reward.
func Accrued(start, now time.Time, ratePerHour float64) float64 {
	if now.Before(start) {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed > SessionDuration {
		elapsed = SessionDuration
	}
	return elapsed.Hours() * ratePerHour
}

// SessionDone reports whether a session started at start has run its full window
func SessionDone(start, now time.Time) bool {
	return now.Sub(start) >= SessionDuration
}

// SessionReward is the total coins a full session yields at ratePerHour
func SessionReward(ratePerHour float64) float64 {
	return ratePerHour * SessionDuration.Hours()
}

// CanStart reports whether the cooldown gate permits a new session
func CanStart(nextAvailable, now time.Time) bool {
	return nextAvailable.IsZero() || !now.Before(nextAvailable)
}

// EffectiveRate returns the user's mining rate, defaulting to the base rate
// for accounts created before rates were stored
func EffectiveRate(user *models.User) float64 {
	if user.Mining.MiningRate <= 0 {
		return BaseMiningRate
	}
	return user.Mining.MiningRate
}

// activeSessionFilter matches the user doc only while the given session is
// still the live one. Finalization and checkpoint writes share it, so a
// session already settled elsewhere turns the write into a no-op instead of a
// double count.
func activeSessionFilter(userID primitive.ObjectID, start time.Time) bson.M {
	return bson.M{"_id": userID, "mining.isMining": true, "mining.lastMiningStart": start}
}

// settleSession applies the finalize transition to an in-memory mining state
// when it still holds the expected session. Mirrors the guarded database
// update: a state already settled is left untouched and the session counter
// moves at most once per session.
func settleSession(m *models.UserMining, start, now time.Time, rate float64) bool {
	if !m.IsMining || !m.LastMiningStart.Equal(start) {
		return false
	}
	m.IsMining = false
	m.CoinsMined = SessionReward(rate)
	m.NextAvailable = now.Add(SessionDuration)
	m.TotalMiningSessions++
	return true
}

// StartSession opens a new mining session for the user. The cooldown gate is
// checked before any write; a concurrent start from another device loses the
// filtered update and is rejected.
func (s *MiningService) StartSession(ctx context.Context, user *models.User) (*models.MiningSession, error) {
	now := time.Now()

	if user.Mining.IsMining {
		if !SessionDone(user.Mining.LastMiningStart, now) {
			return nil, ErrAlreadyMining
		}
		// Expired leftover session: finalize it, which also resets the cooldown
		leftoverRate := user.Mining.SessionRate
		if leftoverRate <= 0 {
			leftoverRate = BaseMiningRate
		}
		if _, err := s.FinalizeSession(ctx, user.ID, user.Mining.LastMiningStart, leftoverRate); err != nil {
			return nil, fmt.Errorf("failed to finalize expired session: %w", err)
		}
		// Refresh the caller's view so the rejection reports the cooldown
		// finalization just wrote, not the expired one
		settleSession(&user.Mining, user.Mining.LastMiningStart, now, leftoverRate)
		return nil, ErrCooldownActive
	}

	if !CanStart(user.Mining.NextAvailable, now) {
		return nil, ErrCooldownActive
	}

	rate := EffectiveRate(user)

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := db.MongoDatabase.Collection("users").UpdateOne(dbCtx,
		bson.M{"_id": user.ID, "mining.isMining": false},
		bson.M{"$set": bson.M{
			"mining.isMining":        true,
			"mining.lastMiningStart": now,
			"mining.coinsMined":      0.0,
			"mining.sessionRate":     rate,
			"mining.nextAvailable":   now.Add(SessionDuration),
			"updatedAt":              now,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrAlreadyMining
	}

	session := models.MiningSession{
		ID:        primitive.NewObjectID(),
		SessionID: uuid.NewString(),
		UserID:    user.ID,
		Status:    models.SessionStatusActive,
		Rate:      rate,
		StartedAt: now,
	}
	if _, err := db.MongoDatabase.Collection("mining_sessions").InsertOne(dbCtx, session); err != nil {
		log.Printf("Error saving session log entry: %v", err)
		// Don't fail the start, the live session is already open
	}

	RecordActivity(ctx, user.ID, "mining_started", nil)
	CheckBadgeConditions(ctx, user.ID, ActionMiningStarted, nil)

	websocket.BroadcastRewardEvent(models.RewardEvent{
		Type:      "mining_started",
		UserID:    user.ID.Hex(),
		Timestamp: now,
	})

	return &session, nil
}

// MiningStatus is the computed view of a user's session state
type MiningStatus struct {
	IsMining      bool      `json:"isMining"`
	CoinsMined    float64   `json:"coinsMined"`
	SessionReward float64   `json:"sessionReward"`
	MiningRate    float64   `json:"miningRate"`
	Progress      float64   `json:"progress"` // percent of the session window elapsed
	StartedAt     time.Time `json:"startedAt,omitempty"`
	CompletesAt   time.Time `json:"completesAt,omitempty"`
	NextAvailable time.Time `json:"nextAvailable,omitempty"`
}

// Status computes the live session view. A session past its window is
// finalized on read rather than resumed.
func (s *MiningService) Status(ctx context.Context, user *models.User) (*MiningStatus, error) {
	now := time.Now()

	if !user.Mining.IsMining {
		return &MiningStatus{
			IsMining:      false,
			CoinsMined:    user.Mining.CoinsMined,
			MiningRate:    EffectiveRate(user),
			NextAvailable: user.Mining.NextAvailable,
		}, nil
	}

	start := user.Mining.LastMiningStart
	rate := user.Mining.SessionRate
	if rate <= 0 {
		rate = EffectiveRate(user)
	}

	if SessionDone(start, now) {
		if _, err := s.FinalizeSession(ctx, user.ID, start, rate); err != nil {
			return nil, err
		}
		settled := user.Mining
		settleSession(&settled, start, now, rate)
		return &MiningStatus{
			IsMining:      false,
			CoinsMined:    settled.CoinsMined,
			MiningRate:    EffectiveRate(user),
			Progress:      100,
			NextAvailable: settled.NextAvailable,
		}, nil
	}

	coins := s.sessionAccrual(user.ID.Hex(), start, now, rate)

	return &MiningStatus{
		IsMining:      true,
		CoinsMined:    coins,
		SessionReward: SessionReward(rate),
		MiningRate:    rate,
		Progress:      now.Sub(start).Hours() / SessionDuration.Hours() * 100,
		StartedAt:     start,
		CompletesAt:   start.Add(SessionDuration),
		NextAvailable: user.Mining.NextAvailable,
	}, nil
}

// sessionAccrual serves a status poll from the live cache when a checkpoint
// recently wrote it, computing from the session start on a miss and priming
// the cache for the next poll
func (s *MiningService) sessionAccrual(userID string, start, now time.Time, rate float64) float64 {
	if coins, ok, err := s.live.GetAccrual(userID); err == nil && ok {
		return coins
	}
	coins := Accrued(start, now, rate)
	s.live.SetAccrual(userID, coins, 3*CheckpointInterval)
	return coins
}

// run drives the checkpoint loop for all active sessions
func (s *MiningService) run() {
	ticker := time.NewTicker(CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkpointActiveSessions()
		case <-s.quit:
			return
		}
	}
}

// checkpointActiveSessions persists accrual for every active session and
// finalizes the ones that completed their window. A failed checkpoint write is
// logged and retried on the next interval; it never stops accrual, which is
// recomputed from the session start time.
func (s *MiningService) checkpointActiveSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := db.MongoDatabase.Collection("users")
	cursor, err := users.Find(ctx, bson.M{"mining.isMining": true})
	if err != nil {
		log.Printf("Checkpoint sweep failed to list active sessions: %v", err)
		return
	}
	defer cursor.Close(ctx)

	now := time.Now()
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}

		start := user.Mining.LastMiningStart
		rate := user.Mining.SessionRate
		if rate <= 0 {
			rate = EffectiveRate(&user)
		}

		if SessionDone(start, now) {
			if _, err := s.FinalizeSession(ctx, user.ID, start, rate); err != nil {
				log.Printf("Failed to finalize session for %s: %v", user.Email, err)
			}
			continue
		}

		coins := Accrued(start, now, rate)
		_, err := users.UpdateOne(ctx,
			activeSessionFilter(user.ID, start),
			bson.M{"$set": bson.M{"mining.coinsMined": coins}},
		)
		if err != nil {
			log.Printf("Checkpoint write failed for %s: %v", user.Email, err)
			continue
		}
		s.live.SetAccrual(user.ID.Hex(), coins, 3*CheckpointInterval)
	}
}

// RecoverAbandonedSessions finalizes sessions that ran out their window while
// the server was down. Safe to run more than once.
func (s *MiningService) RecoverAbandonedSessions(ctx context.Context) error {
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-SessionDuration)
	cursor, err := db.MongoDatabase.Collection("users").Find(dbCtx, bson.M{
		"mining.isMining":        true,
		"mining.lastMiningStart": bson.M{"$lte": cutoff},
	})
	if err != nil {
		return fmt.Errorf("failed to list abandoned sessions: %w", err)
	}
	defer cursor.Close(dbCtx)

	recovered := 0
	for cursor.Next(dbCtx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		rate := user.Mining.SessionRate
		if rate <= 0 {
			rate = EffectiveRate(&user)
		}
		finalized, err := s.FinalizeSession(ctx, user.ID, user.Mining.LastMiningStart, rate)
		if err != nil {
			log.Printf("Failed to recover session for %s: %v", user.Email, err)
			continue
		}
		if finalized {
			recovered++
		}
	}

	if recovered > 0 {
		log.Printf("Recovered %d abandoned mining sessions", recovered)
	}
	return nil
}

// FinalizeSession freezes a completed session at the full reward and fires the
// completion side effects. The filter carries the expected start time, so a
// session already finalized elsewhere is a no-op and returns false.
func (s *MiningService) FinalizeSession(ctx context.Context, userID primitive.ObjectID, start time.Time, rate float64) (bool, error) {
	if rate <= 0 {
		rate = BaseMiningRate
	}
	now := time.Now()
	rewardAmount := SessionReward(rate)

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := db.MongoDatabase.Collection("users").FindOneAndUpdate(dbCtx,
		activeSessionFilter(userID, start),
		bson.M{
			"$set": bson.M{
				"mining.isMining":      false,
				"mining.coinsMined":    rewardAmount,
				"mining.nextAvailable": now.Add(SessionDuration),
				"updatedAt":            now,
			},
			"$inc": bson.M{
				"mining.totalMiningSessions": 1,
				"stats.totalCoinsEarned":     rewardAmount,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.User
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			// Already finalized by another path
			return false, nil
		}
		return false, fmt.Errorf("failed to finalize session: %w", err)
	}

	completedAt := now
	_, err := db.MongoDatabase.Collection("mining_sessions").UpdateOne(dbCtx,
		bson.M{"userId": userID, "status": models.SessionStatusActive, "startedAt": start},
		bson.M{"$set": bson.M{
			"status":      models.SessionStatusCompleted,
			"coinsMined":  rewardAmount,
			"completedAt": completedAt,
		}},
	)
	if err != nil {
		log.Printf("Error closing session log entry: %v", err)
		// Don't fail finalization, the profile is already settled
	}

	s.live.Clear(userID.Hex())

	message := fmt.Sprintf("Mining session complete! You earned %.2f coins.", rewardAmount)
	if err := Notify(ctx, userID, models.NotificationMiningComplete, message, map[string]interface{}{
		"coins": rewardAmount,
	}); err != nil {
		log.Printf("Error emitting completion notification: %v", err)
	}

	if _, err := RecordCompletion(ctx, userID, now, "mining_completed"); err != nil {
		log.Printf("Error recording streak completion: %v", err)
	}

	CheckBadgeConditions(ctx, userID, ActionMiningCompleted, map[string]interface{}{
		"totalSessions": updated.Mining.TotalMiningSessions,
	})

	RecordActivity(ctx, userID, "mining_completed", map[string]interface{}{
		"coins": rewardAmount,
	})

	payload := reward.MiningCompletedPayload{
		CoinsMined: rewardAmount,
		TotalCoins: updated.Stats.TotalCoinsEarned,
	}
	if event, err := reward.NewEvent("mining_completed", payload); err == nil {
		if err := reward.PublishEvent(userID.Hex(), event); err != nil {
			websocket.BroadcastRewardEvent(models.RewardEvent{
				Type:      "mining_completed",
				UserID:    userID.Hex(),
				Coins:     rewardAmount,
				Timestamp: now,
			})
		}
	}

	return true, nil
}

// SessionHistory returns the user's most recent session log entries
func (s *MiningService) SessionHistory(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.MiningSession, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"startedAt": -1}).SetLimit(limit)
	cursor, err := db.MongoDatabase.Collection("mining_sessions").Find(dbCtx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session history: %w", err)
	}
	defer cursor.Close(dbCtx)

	var sessions []models.MiningSession
	if err := cursor.All(dbCtx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode session history: %w", err)
	}
	return sessions, nil
}
