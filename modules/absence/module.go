package absence

import (
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/modules/absence/controller"
	"bandmate-api/modules/absence/repository"
	"bandmate-api/modules/absence/router"
	"bandmate-api/modules/absence/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the absence module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, membership service.Membership) {
	repo := repository.NewAbsenceRepository(db)
	svc := service.NewAbsenceService(repo, membership)
	ctrl := controller.NewAbsenceController(svc)
	rtr := router.NewAbsenceRouter(ctrl)

	rtr.Setup(e, mw)
}
