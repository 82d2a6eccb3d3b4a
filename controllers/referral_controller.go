package controllers

import (
	"log"
	"net/http"

	"minehub/services"
	"minehub/structs"

	"github.com/gin-gonic/gin"
)

// ApplyReferral attributes the authenticated user's signup to an invite code
func ApplyReferral(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var request structs.ApplyReferralRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := services.ApplyReferralCode(c, user, request.Code); err != nil {
		switch err {
		case services.ErrInvalidReferralCode:
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid referral code"})
		case services.ErrAlreadyReferred:
			c.JSON(http.StatusConflict, gin.H{"error": "A referral code was already applied"})
		case services.ErrSelfReferral:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot apply your own referral code"})
		default:
			log.Printf("Error applying referral code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply referral code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Referral code applied"})
}

// GetReferralInfo returns the user's invite code and referral stats
func GetReferralInfo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referralCode":   user.Social.ReferralCode,
		"referredBy":     user.Social.ReferredBy,
		"referralsCount": user.Social.ReferralsCount,
		"miningRate":     services.EffectiveRate(user),
		"baseRate":       services.BaseMiningRate,
	})
}
