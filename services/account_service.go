package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"minehub/db"
	"minehub/models"
	"minehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUserAccount bootstraps the profile document and badge catalog for a
// confirmed identity. Idempotent: an existing account is returned as-is, so
// login can call it as a safety net for accounts confirmed out-of-band.
func CreateUserAccount(ctx context.Context, email, referralCode string) (*models.User, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	users := db.MongoDatabase.Collection("users")

	var existing models.User
	err := users.FindOne(dbCtx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: email,
		Profile: models.UserProfile{
			DisplayName: utils.ExtractNameFromEmail(email),
		},
		Mining: models.UserMining{
			MiningRate: BaseMiningRate,
		},
		Social: models.UserSocial{
			ReferralCode: GenerateReferralCode(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := users.InsertOne(dbCtx, user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := InstantiateBadges(ctx, user.ID); err != nil {
		// Badge instantiation is all-or-nothing with the account itself, so a
		// retried confirmation starts from a clean slate
		users.DeleteOne(dbCtx, bson.M{"_id": user.ID})
		return nil, err
	}

	if referralCode != "" {
		if err := ApplyReferralCode(ctx, &user, referralCode); err != nil {
			// A bad invite code never blocks signup
			log.Printf("Referral code %s not applied for %s: %v", referralCode, email, err)
		}
	}

	return &user, nil
}
