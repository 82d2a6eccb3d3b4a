package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func GetBadgesRouteHandler(c *gin.Context) {
	controllers.GetBadges(c)
}

func CompleteBadgeTaskRouteHandler(c *gin.Context) {
	controllers.CompleteBadgeTask(c)
}
