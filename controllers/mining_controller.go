package controllers

import (
	"log"
	"net/http"

	"minehub/internal/reward"
	"minehub/services"

	"github.com/gin-gonic/gin"
)

// StartMining opens a mining session for the authenticated user. The cooldown
// gate is checked before any write; attempts are rate limited per user.
func StartMining(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limiter := reward.NewRateLimiter()
	rlConfig := reward.DefaultRateLimitConfig()
	allowed, err := limiter.CheckStartRateLimit(user.ID.Hex(), rlConfig)
	if err != nil {
		log.Printf("Rate limit check failed: %v", err)
	} else if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}
	limiter.RecordStartAttempt(user.ID.Hex(), rlConfig)

	session, err := services.GetMiningService().StartSession(c, user)
	if err != nil {
		switch err {
		case services.ErrCooldownActive:
			c.JSON(http.StatusConflict, gin.H{
				"error":         "Mining not yet available",
				"nextAvailable": user.Mining.NextAvailable,
			})
		case services.ErrAlreadyMining:
			c.JSON(http.StatusConflict, gin.H{"error": "A mining session is already active"})
		default:
			log.Printf("Error starting mining session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start mining session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mining session started",
		"session": session,
	})
}

// GetMiningStatus returns the live computed session state
func GetMiningStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := services.GetMiningService().Status(c, user)
	if err != nil {
		log.Printf("Error computing mining status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch mining status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetMiningSessions returns the session history log
func GetMiningSessions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := parseInt(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	sessions, err := services.GetMiningService().SessionHistory(c, user.ID, int64(limit))
	if err != nil {
		log.Printf("Error fetching session history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}
