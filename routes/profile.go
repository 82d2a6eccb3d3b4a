package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func GetProfileRouteHandler(c *gin.Context) {
	controllers.GetProfile(c)
}

func UpdateProfileRouteHandler(c *gin.Context) {
	controllers.UpdateProfile(c)
}
