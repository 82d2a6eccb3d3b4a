package services

import (
	"math"
	"testing"
	"time"

	"minehub/internal/reward"
	"minehub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccruedLinear(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// 8 hours at the base rate is a third of the daily reward
	coins := Accrued(start, start.Add(8*time.Hour), BaseMiningRate)
	if math.Abs(coins-1.0) > 1e-9 {
		t.Errorf("Expected 1.0 coins after 8 hours, got %f", coins)
	}

	coins = Accrued(start, start.Add(12*time.Hour), BaseMiningRate)
	if math.Abs(coins-1.5) > 1e-9 {
		t.Errorf("Expected 1.5 coins after 12 hours, got %f", coins)
	}
}

func TestAccruedCapsAtSessionReward(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	coins := Accrued(start, start.Add(30*time.Hour), BaseMiningRate)
	if math.Abs(coins-DailyReward) > 1e-9 {
		t.Errorf("Expected accrual capped at %f, got %f", DailyReward, coins)
	}

	coins = Accrued(start, start.Add(SessionDuration), BaseMiningRate)
	if math.Abs(coins-DailyReward) > 1e-9 {
		t.Errorf("Expected full reward at session end, got %f", coins)
	}
}

func TestAccruedBeforeStart(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	coins := Accrued(start, start.Add(-time.Hour), BaseMiningRate)
	if coins != 0 {
		t.Errorf("Expected 0 coins before session start, got %f", coins)
	}
}

func TestAccruedContinuesFromPersistedStart(t *testing.T) {
	// Accrual is derived from the stored start time, so a restart an hour in
	// must report the same value as an uninterrupted clock
	start := time.Now().Add(-6 * time.Hour)

	coins := Accrued(start, time.Now(), BaseMiningRate)
	expected := 6 * BaseMiningRate
	if math.Abs(coins-expected) > 0.001 {
		t.Errorf("Expected about %f coins after 6 hours, got %f", expected, coins)
	}
}

func TestSessionDoneBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if SessionDone(start, start.Add(SessionDuration-time.Second)) {
		t.Error("Session should not be done one second before the window ends")
	}
	if !SessionDone(start, start.Add(SessionDuration)) {
		t.Error("Session should be done exactly at the window end")
	}
	if !SessionDone(start, start.Add(SessionDuration+time.Hour)) {
		t.Error("Session should be done past the window end")
	}
}

func TestSessionReward(t *testing.T) {
	if math.Abs(SessionReward(BaseMiningRate)-DailyReward) > 1e-9 {
		t.Errorf("Expected base session reward %f, got %f", DailyReward, SessionReward(BaseMiningRate))
	}

	boosted := BaseMiningRate * 1.2
	if math.Abs(SessionReward(boosted)-DailyReward*1.2) > 1e-9 {
		t.Errorf("Expected boosted session reward %f, got %f", DailyReward*1.2, SessionReward(boosted))
	}
}

func TestCanStart(t *testing.T) {
	now := time.Now()

	if !CanStart(time.Time{}, now) {
		t.Error("A user with no recorded cooldown should be able to start")
	}
	if CanStart(now.Add(time.Hour), now) {
		t.Error("Start should be rejected while the cooldown is active")
	}
	if !CanStart(now.Add(-time.Minute), now) {
		t.Error("Start should be allowed once the cooldown has passed")
	}
	if !CanStart(now, now) {
		t.Error("Start should be allowed exactly when the cooldown expires")
	}
}

func TestSettleSessionFinalizesExactlyOnce(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(SessionDuration + time.Hour)

	mining := models.UserMining{
		IsMining:        true,
		LastMiningStart: start,
		SessionRate:     BaseMiningRate,
	}

	if !settleSession(&mining, start, now, BaseMiningRate) {
		t.Fatal("First detection should settle the session")
	}
	if mining.IsMining {
		t.Error("Settled session should not be mining")
	}
	if math.Abs(mining.CoinsMined-DailyReward) > 1e-9 {
		t.Errorf("Settled session should hold the full reward, got %f", mining.CoinsMined)
	}
	if !mining.NextAvailable.Equal(now.Add(SessionDuration)) {
		t.Errorf("Cooldown should restart from settlement time, got %v", mining.NextAvailable)
	}
	if mining.TotalMiningSessions != 1 {
		t.Errorf("Expected 1 completed session, got %d", mining.TotalMiningSessions)
	}

	// A second detection of the same session must be a no-op
	if settleSession(&mining, start, now.Add(time.Minute), BaseMiningRate) {
		t.Error("Second detection should not settle again")
	}
	if mining.TotalMiningSessions != 1 {
		t.Errorf("Session counter should move once, got %d", mining.TotalMiningSessions)
	}
	if !mining.NextAvailable.Equal(now.Add(SessionDuration)) {
		t.Error("Second detection should not move the cooldown")
	}
}

func TestSettleSessionIgnoresMismatchedStart(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(SessionDuration)

	mining := models.UserMining{
		IsMining:        true,
		LastMiningStart: start.Add(time.Hour),
	}

	if settleSession(&mining, start, now, BaseMiningRate) {
		t.Error("A different active session should not be settled")
	}
	if !mining.IsMining || mining.TotalMiningSessions != 0 {
		t.Error("Mismatched settle attempt should leave the state untouched")
	}
}

func TestActiveSessionFilterPinsSessionIdentity(t *testing.T) {
	userID := primitive.NewObjectID()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	filter := activeSessionFilter(userID, start)

	if filter["_id"] != userID {
		t.Error("Filter should target the user document")
	}
	if filter["mining.isMining"] != true {
		t.Error("Filter should only match a live session")
	}
	if got, ok := filter["mining.lastMiningStart"].(time.Time); !ok || !got.Equal(start) {
		t.Error("Filter should carry the expected session start")
	}
}

func TestSessionAccrualComputesWithoutCache(t *testing.T) {
	s := &MiningService{live: reward.NewLiveStore()}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(8 * time.Hour)

	coins := s.sessionAccrual("user1", start, now, BaseMiningRate)
	if math.Abs(coins-1.0) > 1e-9 {
		t.Errorf("Cache miss should fall back to computed accrual, got %f", coins)
	}
}

func TestBoostedRateCap(t *testing.T) {
	if math.Abs(BoostedRate(0)-BaseMiningRate) > 1e-9 {
		t.Errorf("Expected base rate with no referrals, got %f", BoostedRate(0))
	}

	expected := BaseMiningRate * 1.3
	if math.Abs(BoostedRate(3)-expected) > 1e-9 {
		t.Errorf("Expected %f with 3 referrals, got %f", expected, BoostedRate(3))
	}

	max := BaseMiningRate * MaxMiningRateMultiplier
	if math.Abs(BoostedRate(100)-max) > 1e-9 {
		t.Errorf("Expected rate capped at %f, got %f", max, BoostedRate(100))
	}
}
