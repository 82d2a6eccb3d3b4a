package utils

import (
	"context"
	"time"

	"minehub/db"
	"minehub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FetchUserByEmail loads a user document for the authenticated email
func FetchUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := db.MongoDatabase.Collection("users").FindOne(dbCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AvatarOrFallback returns the stored avatar or a DiceBear fallback seeded
// with the display name
func AvatarOrFallback(user *models.User) string {
	if user.Profile.AvatarURL != "" {
		return user.Profile.AvatarURL
	}
	name := user.Profile.DisplayName
	if name == "" {
		name = ExtractNameFromEmail(user.Email)
	}
	return "https://api.dicebear.com/9.x/adventurer/svg?seed=" + name
}
