package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles scheduling routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

// NewScheduleRouter creates a new router
func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

// Setup registers scheduling routes
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	// Band-scoped
	bandItems := privateRoutes.Group("/bands/:id/items", mw.AuthMiddleware())
	bandItems.POST("", r.ScheduleController.Propose)
	bandItems.GET("", r.ScheduleController.ListItems)

	// Item-scoped
	items := privateRoutes.Group("/items", mw.AuthMiddleware())
	items.GET("/:id", r.ScheduleController.GetItem)
	items.PUT("/:id", r.ScheduleController.EditItem)
	items.DELETE("/:id", r.ScheduleController.DeleteItem)
	items.GET("/:id/ranking", r.ScheduleController.GetRanking)

	// Voting
	items.POST("/:id/slots/:slotId/votes", r.ScheduleController.CastVote)
	items.POST("/:id/slots/:slotId/suggestions", r.ScheduleController.SuggestTime)

	// Confirmation lifecycle
	items.POST("/:id/confirm", r.ScheduleController.Confirm)
	items.POST("/:id/reopen", r.ScheduleController.Reopen)
}
