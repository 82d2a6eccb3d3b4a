package routes

import (
	"minehub/controllers"

	"github.com/gin-gonic/gin"
)

func GetNotificationsRouteHandler(c *gin.Context) {
	controllers.GetNotifications(c)
}

func MarkNotificationReadRouteHandler(c *gin.Context) {
	controllers.MarkNotificationRead(c)
}

func DismissNotificationRouteHandler(c *gin.Context) {
	controllers.DismissNotification(c)
}

func MarkAllNotificationsReadRouteHandler(c *gin.Context) {
	controllers.MarkAllNotificationsRead(c)
}
