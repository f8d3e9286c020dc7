package controller

import (
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	"bandmate-api/modules/absence/dto"
	"bandmate-api/modules/absence/service"
	authController "bandmate-api/modules/auth/controller"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AbsenceController handles absence HTTP requests
type AbsenceController struct {
	controller.BaseController
	AbsenceService service.AbsenceServiceInterface
}

// NewAbsenceController creates a new controller
func NewAbsenceController(svc service.AbsenceServiceInterface) *AbsenceController {
	return &AbsenceController{
		BaseController: controller.NewBaseController(),
		AbsenceService: svc,
	}
}

func (c *AbsenceController) actorFromContext(ctx echo.Context) (service.Actor, error) {
	claims, err := authController.GetClaimsFromContext(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// Create handles POST /bands/:id/absences
// @Summary Declare an absence range
// @Tags Absence
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param request body dto.CreateAbsenceRequest true "Absence range"
// @Success 200 {object} dto.AbsenceResponse
// @Router /private/bands/{id}/absences [post]
func (c *AbsenceController) Create(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	var req dto.CreateAbsenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.AbsenceService.Create(ctx.Request().Context(), actor, bandID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Absence recorded")
}

// List handles GET /bands/:id/absences
// @Summary List absences overlapping a date window
// @Tags Absence
// @Security BearerAuth
// @Produce json
// @Param id path string true "Band ID"
// @Param from query string false "Window start (2006-01-02)"
// @Param to query string false "Window end (2006-01-02)"
// @Success 200 {array} dto.AbsenceResponse
// @Router /private/bands/{id}/absences [get]
func (c *AbsenceController) List(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	result, appErr := c.AbsenceService.ListByBand(ctx.Request().Context(), actor, bandID,
		ctx.QueryParam("from"), ctx.QueryParam("to"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Absences retrieved")
}

// Delete handles DELETE /absences/:id
// @Summary Delete an absence
// @Tags Absence
// @Security BearerAuth
// @Param id path string true "Absence ID"
// @Success 200 {object} map[string]string
// @Router /private/absences/{id} [delete]
func (c *AbsenceController) Delete(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	absenceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid absence ID")
	}

	if appErr := c.AbsenceService.Delete(ctx.Request().Context(), actor, absenceID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Absence deleted")
}
