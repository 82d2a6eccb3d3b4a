package controllers

import (
	"log"
	"net/http"

	"minehub/internal/reward"
	"minehub/services"

	"github.com/gin-gonic/gin"
)

// Badge tasks the client may complete directly; everything else is driven by
// server-side events through the rule table
var clientCompletableTasks = map[string]map[string]bool{
	"pioneer": {"complete-profile": true},
}

// GetBadges returns the user's badge instances with task progress
func GetBadges(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	badges, err := services.ListBadges(c, user.ID)
	if err != nil {
		log.Printf("Error fetching badges: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch badges"})
		return
	}

	earned := 0
	for _, b := range badges {
		if b.IsEarned {
			earned++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"badges": badges,
		"earned": earned,
		"total":  len(badges),
	})
}

// CompleteBadgeTask marks a client-completable task done
func CompleteBadgeTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	badgeID := c.Param("badgeId")
	taskID := c.Param("taskId")

	if !clientCompletableTasks[badgeID][taskID] {
		c.JSON(http.StatusForbidden, gin.H{"error": "Task cannot be completed directly"})
		return
	}

	limiter := reward.NewRateLimiter()
	rlConfig := reward.DefaultRateLimitConfig()
	allowed, err := limiter.CheckTaskRateLimit(user.ID.Hex(), rlConfig)
	if err != nil {
		log.Printf("Rate limit check failed: %v", err)
	} else if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}
	limiter.RecordTaskUpdate(user.ID.Hex(), rlConfig)

	badge, err := services.UpdateBadgeTask(c, user.ID, badgeID, taskID, true)
	if err != nil {
		if err == services.ErrBadgeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		} else {
			log.Printf("Error updating badge task: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update badge task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated",
		"badge":   badge,
	})
}
