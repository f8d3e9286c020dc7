package router

import (
	"bandmate-api/core/middleware"
	"bandmate-api/modules/absence/controller"

	"github.com/labstack/echo/v4"
)

// AbsenceRouter handles absence routes
type AbsenceRouter struct {
	AbsenceController *controller.AbsenceController
}

// NewAbsenceRouter creates a new router
func NewAbsenceRouter(absenceController *controller.AbsenceController) *AbsenceRouter {
	return &AbsenceRouter{
		AbsenceController: absenceController,
	}
}

// Setup registers absence routes
func (r *AbsenceRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	bandAbsences := privateRoutes.Group("/bands/:id/absences", mw.AuthMiddleware())
	bandAbsences.POST("", r.AbsenceController.Create)
	bandAbsences.GET("", r.AbsenceController.List)

	absences := privateRoutes.Group("/absences", mw.AuthMiddleware())
	absences.DELETE("/:id", r.AbsenceController.Delete)
}
