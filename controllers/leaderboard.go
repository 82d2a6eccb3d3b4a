package controllers

import (
	"net/http"

	"minehub/db"
	"minehub/models"
	"minehub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Miner represents a leaderboard entry
type Miner struct {
	ID          string  `json:"id"`
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Coins       float64 `json:"coins"`
	Streak      int     `json:"streak"`
	AvatarURL   string  `json:"avatarUrl"`
	CurrentUser bool    `json:"currentUser"`
}

// GetLeaderboard returns users ranked by total coins earned
func GetLeaderboard(c *gin.Context) {
	currentEmail, exists := c.Get("email")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := parseInt(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	collection := db.MongoDatabase.Collection("users")
	findOptions := options.Find().
		SetSort(bson.D{{Key: "stats.totalCoinsEarned", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := collection.Find(c, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard data"})
		return
	}
	defer cursor.Close(c)

	var users []models.User
	if err := cursor.All(c, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode leaderboard data"})
		return
	}

	var miners []Miner
	for i, user := range users {
		name := user.Profile.DisplayName
		if name == "" {
			name = utils.ExtractNameFromEmail(user.Email)
		}

		miners = append(miners, Miner{
			ID:          user.ID.Hex(),
			Rank:        i + 1,
			Name:        name,
			Coins:       user.Stats.TotalCoinsEarned,
			Streak:      user.Stats.CurrentStreak,
			AvatarURL:   utils.AvatarOrFallback(&user),
			CurrentUser: user.Email == currentEmail,
		})
	}

	totalUsers, err := collection.CountDocuments(c, bson.M{})
	if err != nil {
		totalUsers = int64(len(users))
	}
	activeMiners, err := collection.CountDocuments(c, bson.M{"mining.isMining": true})
	if err != nil {
		activeMiners = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"miners": miners,
		"stats": gin.H{
			"registeredMiners": totalUsers,
			"miningNow":        activeMiners,
		},
	})
}
