package notification

import (
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/modules/notification/controller"
	"bandmate-api/modules/notification/repository"
	"bandmate-api/modules/notification/router"
	"bandmate-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes. The service
// is returned so other modules can push notifications.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.NotificationServiceInterface {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
