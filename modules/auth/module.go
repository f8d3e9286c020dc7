package auth

import (
	"bandmate-api/core/cache"
	"bandmate-api/core/database"
	"bandmate-api/core/middleware"
	"bandmate-api/modules/auth/controller"
	"bandmate-api/modules/auth/repository"
	"bandmate-api/modules/auth/router"
	"bandmate-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes. The user repository
// is returned so other modules can resolve recipients for notifications.
func Init(e *echo.Echo, db database.Database, c cache.CacheInterface, mw *middleware.Middleware) (service.AuthServiceInterface, repository.UserRepositoryInterface) {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	rtr := router.NewAuthRouter(ctrl)

	rtr.Setup(e, mw)
	return svc, repo
}
