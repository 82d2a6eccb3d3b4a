package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"minehub/db"
	"minehub/models"
	"minehub/utils"
	"minehub/websocket"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrAlreadyReferred     = errors.New("referral code already applied")
	ErrSelfReferral        = errors.New("cannot apply your own referral code")
)

// Each referral boosts the referrer's mining rate by 10% of the base rate,
// capped at twice the base rate. Boosts apply only to sessions started after
// the change.
const (
	ReferralBoostFraction   = 0.10
	MaxMiningRateMultiplier = 2.0
)

// GenerateReferralCode produces a short shareable invite code
func GenerateReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

// BoostedRate computes the mining rate for a referral count
func BoostedRate(referrals int) float64 {
	rate := BaseMiningRate * (1 + ReferralBoostFraction*float64(referrals))
	max := BaseMiningRate * MaxMiningRateMultiplier
	if rate > max {
		rate = max
	}
	return rate
}

// ApplyReferralCode attributes the user's signup to the code's owner and
// credits the referrer. A user can be referred at most once; the filtered
// update makes a concurrent second apply a no-op.
func ApplyReferralCode(ctx context.Context, user *models.User, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrInvalidReferralCode
	}
	if user.Social.ReferredBy != "" {
		return ErrAlreadyReferred
	}
	if code == user.Social.ReferralCode {
		return ErrSelfReferral
	}

	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	users := db.MongoDatabase.Collection("users")

	var referrer models.User
	err := users.FindOne(dbCtx, bson.M{"social.referralCode": code}).Decode(&referrer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInvalidReferralCode
		}
		return fmt.Errorf("failed to look up referral code: %w", err)
	}

	now := time.Now()
	res, err := users.UpdateOne(dbCtx,
		bson.M{"_id": user.ID, "social.referredBy": bson.M{"$in": bson.A{nil, ""}}},
		bson.M{"$set": bson.M{"social.referredBy": code, "updatedAt": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to attribute referral: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAlreadyReferred
	}

	credited := users.FindOneAndUpdate(dbCtx,
		bson.M{"_id": referrer.ID},
		bson.M{"$inc": bson.M{"social.referralsCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updatedReferrer models.User
	if err := credited.Decode(&updatedReferrer); err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}

	newRate := BoostedRate(updatedReferrer.Social.ReferralsCount)
	if _, err := users.UpdateOne(dbCtx,
		bson.M{"_id": referrer.ID},
		bson.M{"$set": bson.M{"mining.miningRate": newRate, "updatedAt": now}},
	); err != nil {
		log.Printf("Error boosting referrer rate: %v", err)
	}

	message := fmt.Sprintf("%s joined with your invite code. Your mining rate is now %.3f coins/hour.",
		utils.ExtractNameFromEmail(user.Email), newRate)
	if err := Notify(ctx, referrer.ID, models.NotificationReferral, message, map[string]interface{}{
		"referrals": updatedReferrer.Social.ReferralsCount,
	}); err != nil {
		log.Printf("Error emitting referral notification: %v", err)
	}

	CheckBadgeConditions(ctx, referrer.ID, ActionReferralSuccess, map[string]interface{}{
		"referrals": updatedReferrer.Social.ReferralsCount,
	})

	RecordActivity(ctx, user.ID, "referral_applied", map[string]interface{}{"code": code})
	RecordActivity(ctx, referrer.ID, "referral_credited", map[string]interface{}{
		"referrals": updatedReferrer.Social.ReferralsCount,
	})

	websocket.BroadcastRewardEvent(models.RewardEvent{
		Type:      "referral_applied",
		UserID:    referrer.ID.Hex(),
		Message:   message,
		Timestamp: now,
	})

	return nil
}
