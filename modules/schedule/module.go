package schedule

import (
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/modules/schedule/controller"
	"bandmate-api/modules/schedule/repository"
	"bandmate-api/modules/schedule/router"
	"bandmate-api/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the schedule module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, membership service.Membership, notifier service.Notifier, mail service.Mailer, users service.UserDirectory) {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewScheduleService(repo, membership, notifier, mail, users)
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)
}
