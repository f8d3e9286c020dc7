package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/band/controller"

	"github.com/labstack/echo/v4"
)

// BandRouter handles band routes
type BandRouter struct {
	BandController *controller.BandController
}

// NewBandRouter creates a new router
func NewBandRouter(bandController *controller.BandController) *BandRouter {
	return &BandRouter{
		BandController: bandController,
	}
}

// Setup registers band routes
func (r *BandRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	bandRoutes := privateRoutes.Group("/bands", mw.AuthMiddleware())

	bandRoutes.POST("", r.BandController.CreateBand)
	bandRoutes.GET("", r.BandController.GetMyBands)
	bandRoutes.POST("/join", r.BandController.JoinBand)
	bandRoutes.GET("/:id", r.BandController.GetBand)
	bandRoutes.PUT("/:id", r.BandController.UpdateBand)
	bandRoutes.DELETE("/:id", r.BandController.DeleteBand)

	// Membership
	bandRoutes.PUT("/:id/members/:userId/role", r.BandController.ChangeMemberRole)
	bandRoutes.DELETE("/:id/members/:userId", r.BandController.RemoveMember)

	// Locations
	bandRoutes.POST("/:id/locations", r.BandController.CreateLocation)
	bandRoutes.GET("/:id/locations", r.BandController.GetLocations)
}
