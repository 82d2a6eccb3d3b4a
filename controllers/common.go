package controllers

import (
	"fmt"
	"net/http"

	"minehub/models"
	"minehub/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// currentUser resolves the authenticated user document from the email set by
// the auth middleware. Writes the error response itself on failure.
func currentUser(c *gin.Context) (*models.User, bool) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	user, err := utils.FetchUserByEmail(c, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}
	return user, true
}

// parseInt parses a positive integer query parameter
func parseInt(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	return result, err
}
