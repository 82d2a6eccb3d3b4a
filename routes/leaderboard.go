package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func GetLeaderboardRouteHandler(c *gin.Context) {
	controllers.GetLeaderboard(c)
}
