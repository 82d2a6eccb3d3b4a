package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"minehub/db"
	"minehub/models"
	"minehub/services"
	"minehub/structs"
	"minehub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetProfile retrieves and returns user profile data
func GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	activities, err := services.ListActivities(c, user.ID, 10)
	if err != nil {
		log.Printf("Error fetching activities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	badges, err := services.ListBadges(c, user.ID)
	if err != nil {
		log.Printf("Error fetching badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	earnedBadges := 0
	for _, b := range badges {
		if b.IsEarned {
			earnedBadges++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"displayName": user.Profile.DisplayName,
			"email":       user.Email,
			"bio":         user.Profile.Bio,
			"avatarUrl":   utils.AvatarOrFallback(user),
			"memberSince": user.CreatedAt,
		},
		"stats": gin.H{
			"totalCoinsEarned":    user.Stats.TotalCoinsEarned,
			"currentStreak":       user.Stats.CurrentStreak,
			"longestStreak":       user.Stats.LongestStreak,
			"badgesEarned":        earnedBadges,
			"totalMiningSessions": user.Mining.TotalMiningSessions,
			"miningRate":          services.EffectiveRate(user),
		},
		"social": gin.H{
			"referralCode":   user.Social.ReferralCode,
			"referralsCount": user.Social.ReferralsCount,
		},
		"recentActivity": activities,
	})
}

// profileUpdateFields builds the partial update for the fields the request
// carries. Fields left out of the body are never touched.
func profileUpdateFields(updateData structs.UpdateProfileRequest, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if updateData.DisplayName != "" {
		set["profile.displayName"] = updateData.DisplayName
	}
	if updateData.Bio != "" {
		set["profile.bio"] = updateData.Bio
	}
	if updateData.AvatarURL != "" {
		set["profile.avatarUrl"] = updateData.AvatarURL
	}
	return set
}

// profileComplete reports whether the profile has both a display name and a
// bio after the update lands
func profileComplete(current models.UserProfile, updateData structs.UpdateProfileRequest) bool {
	name := updateData.DisplayName
	if name == "" {
		name = current.DisplayName
	}
	bio := updateData.Bio
	if bio == "" {
		bio = current.Bio
	}
	return name != "" && bio != ""
}

// UpdateProfile modifies user display name, bio and avatar
func UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var updateData structs.UpdateProfileRequest
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": profileUpdateFields(updateData, time.Now())}
	_, err := db.MongoDatabase.Collection("users").UpdateOne(dbCtx, filter, update)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if profileComplete(user.Profile, updateData) {
		services.CheckBadgeConditions(c, user.ID, services.ActionProfileCompleted, nil)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
