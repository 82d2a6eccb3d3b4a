package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func StartMiningRouteHandler(c *gin.Context) {
	controllers.StartMining(c)
}

func GetMiningStatusRouteHandler(c *gin.Context) {
	controllers.GetMiningStatus(c)
}

func GetMiningSessionsRouteHandler(c *gin.Context) {
	controllers.GetMiningSessions(c)
}
