package websocket

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"minehub/db"
	"minehub/internal/reward"
	"minehub/models"
	"minehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RewardsWebsocketHandler handles WebSocket connections for reward updates
func RewardsWebsocketHandler(c *gin.Context) {
	// Get token from Authorization header or query parameter
	var tokenString string
	authz := c.GetHeader("Authorization")
	if authz != "" {
		tokenParts := strings.Split(authz, " ")
		if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
			tokenString = tokenParts[1]
		}
	}

	// Fallback to query parameter if header not present
	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	valid, email, err := utils.ValidateTokenAndFetchEmail(tokenString)
	if err != nil || !valid || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	// Get user from database
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = db.MongoDatabase.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// Upgrade connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &RewardClient{
		Conn:   conn,
		UserID: user.ID.Hex(),
	}

	RegisterRewardClient(client)

	// Send welcome message
	welcomeMsg := map[string]interface{}{
		"type":    "connected",
		"message": "Connected to reward updates",
		"userId":  user.ID.Hex(),
	}
	if user.Mining.IsMining {
		if coins, ok, err := reward.NewLiveStore().GetAccrual(user.ID.Hex()); err == nil && ok {
			welcomeMsg["coinsMined"] = coins
		}
	}
	client.SafeWriteJSON(welcomeMsg)

	defer func() {
		UnregisterRewardClient(client)
	}()

	// Keep connection alive and handle incoming messages (ping/pong)
	for {
		messageType, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Reward WebSocket error: %v", err)
			}
			break
		}

		if messageType == websocket.PingMessage {
			if err := conn.WriteMessage(websocket.PongMessage, nil); err != nil {
				log.Printf("Error writing pong: %v", err)
				break
			}
		}
	}
}
