package controllers

import (
	"context"
	"log"
	"net/http"

	"minehub/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetNotifications lists the user's notifications, newest first
func GetNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	includeDismissed := c.Query("includeDismissed") == "true"

	notifications, err := services.ListNotifications(c, user.ID, includeDismissed)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        unread,
		"total":         len(notifications),
	})
}

// MarkNotificationRead flags one notification as read
func MarkNotificationRead(c *gin.Context) {
	updateNotification(c, services.MarkNotificationRead)
}

// DismissNotification hides one notification
func DismissNotification(c *gin.Context) {
	updateNotification(c, services.DismissNotification)
}

func updateNotification(c *gin.Context, update func(ctx context.Context, userID, id primitive.ObjectID) error) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := update(c, user.ID, notificationID); err != nil {
		if err == services.ErrNotificationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		} else {
			log.Printf("Error updating notification: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification updated"})
}

// MarkAllNotificationsRead flags every unread notification for the user
func MarkAllNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := services.MarkAllNotificationsRead(c, user.ID)
	if err != nil {
		log.Printf("Error marking notifications read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications marked read",
		"updated": count,
	})
}
