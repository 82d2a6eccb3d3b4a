package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func GetStreakRouteHandler(c *gin.Context) {
	controllers.GetStreak(c)
}
