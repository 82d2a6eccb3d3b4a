package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func ApplyReferralRouteHandler(c *gin.Context) {
	controllers.ApplyReferral(c)
}

func GetReferralInfoRouteHandler(c *gin.Context) {
	controllers.GetReferralInfo(c)
}
