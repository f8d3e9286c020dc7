package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/setlist/controller"

	"github.com/labstack/echo/v4"
)

// SetlistRouter handles setlist routes
type SetlistRouter struct {
	SetlistController *controller.SetlistController
}

// NewSetlistRouter creates a new router
func NewSetlistRouter(setlistController *controller.SetlistController) *SetlistRouter {
	return &SetlistRouter{
		SetlistController: setlistController,
	}
}

// Setup registers setlist routes
func (r *SetlistRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	bandSetlists := privateRoutes.Group("/bands/:id/setlists", mw.AuthMiddleware())
	bandSetlists.POST("", r.SetlistController.Create)
	bandSetlists.GET("", r.SetlistController.List)

	setlists := privateRoutes.Group("/setlists", mw.AuthMiddleware())
	setlists.GET("/:id", r.SetlistController.Get)
	setlists.PUT("/:id", r.SetlistController.Update)
	setlists.DELETE("/:id", r.SetlistController.Delete)

	// Songs
	setlists.POST("/:id/songs", r.SetlistController.AddSong)
	setlists.PUT("/:id/songs/order", r.SetlistController.ReorderSongs)
	setlists.DELETE("/:id/songs/:songId", r.SetlistController.DeleteSong)
	setlists.POST("/:id/songs/:songId/attachment", r.SetlistController.UploadAttachment)
}
