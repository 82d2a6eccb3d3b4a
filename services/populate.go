package services

import (
	"context"
	"log"
	"time"

	"minehub/db"

	"go.mongodb.org/mongo-driver/bson"
)

// PopulateTestUsers seeds a few accounts for local development. Runs only
// against an empty users collection.
func PopulateTestUsers() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	collection := db.MongoDatabase.Collection("users")
	count, _ := collection.CountDocuments(ctx, bson.M{})

	if count > 0 {
		return
	}

	testEmails := []string{
		"miner1@example.com",
		"miner2@example.com",
	}

	for _, email := range testEmails {
		user, err := CreateUserAccount(ctx, email, "")
		if err != nil {
			log.Printf("Failed to seed test user %s: %v", email, err)
			continue
		}

		_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
			"profile.bio": "Test account",
			"updatedAt":   time.Now(),
		}})
		if err != nil {
			log.Printf("Failed to update seeded user %s: %v", email, err)
		}
	}
}
