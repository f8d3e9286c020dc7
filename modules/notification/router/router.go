package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(c *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{NotificationController: c}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	routes := v1.Group("/private/notifications", mw.AuthMiddleware())

	routes.GET("", r.NotificationController.GetMyNotifications)
	routes.GET("/unread-count", r.NotificationController.CountUnread)
	routes.POST("/read", r.NotificationController.MarkAsRead)
	routes.POST("/read-all", r.NotificationController.MarkAllAsRead)
}
