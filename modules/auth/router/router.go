package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	public := v1.Group("/public/auth")
	public.POST("/register", r.AuthController.Register)
	public.POST("/login", r.AuthController.Login)
	public.POST("/refresh", r.AuthController.Refresh)
	public.GET("/google", r.AuthController.GoogleLoginURL)
	public.POST("/google/callback", r.AuthController.GoogleCallback)

	private := v1.Group("/private/auth", mw.AuthMiddleware())
	private.GET("/me", r.AuthController.Me)
	private.POST("/logout", r.AuthController.Logout)
}
