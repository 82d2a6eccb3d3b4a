package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"minehub/config"
	"minehub/db"
	"minehub/internal/reward"
	"minehub/middlewares"
	"minehub/routes"
	"minehub/services"
	"minehub/utils"
	"minehub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.prod.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret)
	utils.SetJWTExpiry(cfg.JWT.Expiry)

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	// Redis backs rate limiting, live accrual cache and the reward event
	// stream; the server stays functional without it
	if err := reward.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Redis unavailable, falling back to direct broadcast: %v", err)
	} else {
		log.Println("Connected to Redis")
		consumer := reward.NewStreamConsumer(&websocket.StreamBridge{})
		if err := consumer.Start(); err != nil {
			log.Printf("Failed to start reward stream consumer: %v", err)
		}
	}

	miningService := services.InitMiningService()

	// Sessions left behind by a crash get finalized before serving traffic
	recoverCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := miningService.RecoverAbandonedSessions(recoverCtx); err != nil {
		log.Printf("Failed to recover abandoned sessions: %v", err)
	}
	cancel()

	services.PopulateTestUsers()

	// Set up the Gin router and configure routes
	router := setupRouter()
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Configure CORS for your frontend (e.g., localhost:5173 for Vite)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes for authentication
	router.POST("/signup", routes.SignUpRouteHandler)
	router.POST("/verifyEmail", routes.VerifyEmailRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)
	router.POST("/forgotPassword", routes.ForgotPasswordRouteHandler)
	router.POST("/confirmForgotPassword", routes.VerifyForgotPasswordRouteHandler)
	router.POST("/verifyToken", routes.VerifyTokenRouteHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/user/fetchprofile", routes.GetProfileRouteHandler)
		auth.PUT("/user/updateprofile", routes.UpdateProfileRouteHandler)
		auth.GET("/leaderboard", routes.GetLeaderboardRouteHandler)

		auth.POST("/mining/start", routes.StartMiningRouteHandler)
		auth.GET("/mining/status", routes.GetMiningStatusRouteHandler)
		auth.GET("/mining/sessions", routes.GetMiningSessionsRouteHandler)

		auth.GET("/streak", routes.GetStreakRouteHandler)

		auth.GET("/badges", routes.GetBadgesRouteHandler)
		auth.POST("/badges/:badgeId/tasks/:taskId/complete", routes.CompleteBadgeTaskRouteHandler)

		auth.GET("/notifications", routes.GetNotificationsRouteHandler)
		auth.PUT("/notifications/readAll", routes.MarkAllNotificationsReadRouteHandler)
		auth.PUT("/notifications/:id/read", routes.MarkNotificationReadRouteHandler)
		auth.PUT("/notifications/:id/dismiss", routes.DismissNotificationRouteHandler)

		auth.POST("/referral/apply", routes.ApplyReferralRouteHandler)
		auth.GET("/referral", routes.GetReferralInfoRouteHandler)

		// WebSocket endpoint for live reward events
		auth.GET("/ws", websocket.RewardsWebsocketHandler)
	}

	return router
}
