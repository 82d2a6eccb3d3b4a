package controllers

import (
	"log"
	"net/http"

	"minehub/services"

	"github.com/gin-gonic/gin"
)

// GetStreak returns the user's current streak and recent day records
func GetStreak(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	days := 30
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := parseInt(daysStr); err == nil && parsed > 0 && parsed <= 120 {
			days = parsed
		}
	}

	history, err := services.GetStreakHistory(c, user.ID, int64(days))
	if err != nil {
		log.Printf("Error fetching streak history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch streak history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currentStreak": user.Stats.CurrentStreak,
		"longestStreak": user.Stats.LongestStreak,
		"milestones":    services.StreakMilestones,
		"history":       history,
	})
}
