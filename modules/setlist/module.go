package setlist

import (
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/core/storage"
	"bandmate-api/modules/setlist/controller"
	"bandmate-api/modules/setlist/repository"
	"bandmate-api/modules/setlist/router"
	"bandmate-api/modules/setlist/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the setlist module and registers routes. store may be
// nil when object storage is not configured; attachment operations then
// fail gracefully.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, membership service.Membership, store storage.StorageInterface) {
	repo := repository.NewSetlistRepository(db)
	svc := service.NewSetlistService(repo, membership, store)
	ctrl := controller.NewSetlistController(svc)
	rtr := router.NewSetlistRouter(ctrl)

	rtr.Setup(e, mw)
}
