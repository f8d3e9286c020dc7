package band

import (
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/modules/band/controller"
	"bandmate-api/modules/band/repository"
	"bandmate-api/modules/band/router"
	"bandmate-api/modules/band/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the band module and registers routes. The returned
// service is shared with modules that need membership checks.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, notifier service.Notifier) service.BandServiceInterface {
	repo := repository.NewBandRepository(db)
	svc := service.NewBandService(repo, notifier)
	ctrl := controller.NewBandController(svc)
	rtr := router.NewBandRouter(ctrl)

	rtr.Setup(e, mw)

	return svc
}
