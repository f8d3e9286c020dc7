package controller

import (
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	authController "bandmate-api/modules/auth/controller"
	"bandmate-api/modules/band/dto"
	"bandmate-api/modules/band/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BandController handles band HTTP requests
type BandController struct {
	controller.BaseController
	BandService service.BandServiceInterface
}

// NewBandController creates a new controller
func NewBandController(svc service.BandServiceInterface) *BandController {
	return &BandController{
		BaseController: controller.NewBaseController(),
		BandService:    svc,
	}
}

func (c *BandController) actorFromContext(ctx echo.Context) (service.Actor, error) {
	claims, err := authController.GetClaimsFromContext(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// CreateBand handles POST /bands
// @Summary Create a band
// @Tags Band
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBandRequest true "Band info"
// @Success 200 {object} dto.BandResponse
// @Router /private/bands [post]
func (c *BandController) CreateBand(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateBandRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.BandService.CreateBand(ctx.Request().Context(), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Band created successfully")
}

// GetMyBands handles GET /bands
// @Summary List bands the current user belongs to
// @Tags Band
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.BandResponse
// @Router /private/bands [get]
func (c *BandController) GetMyBands(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.BandService.GetMyBands(ctx.Request().Context(), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Bands retrieved")
}

// GetBand handles GET /bands/:id
// @Summary Get a band with its members
// @Tags Band
// @Security BearerAuth
// @Produce json
// @Param id path string true "Band ID"
// @Success 200 {object} dto.BandResponse
// @Router /private/bands/{id} [get]
func (c *BandController) GetBand(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	result, appErr := c.BandService.GetBand(ctx.Request().Context(), actor, bandID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Band retrieved")
}

// UpdateBand handles PUT /bands/:id
// @Summary Update band name or description
// @Tags Band
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param request body dto.UpdateBandRequest true "Fields to update"
// @Success 200 {object} dto.BandResponse
// @Router /private/bands/{id} [put]
func (c *BandController) UpdateBand(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	var req dto.UpdateBandRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.BandService.UpdateBand(ctx.Request().Context(), actor, bandID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Band updated successfully")
}

// DeleteBand handles DELETE /bands/:id
// @Summary Delete a band
// @Tags Band
// @Security BearerAuth
// @Param id path string true "Band ID"
// @Success 200 {object} map[string]string
// @Router /private/bands/{id} [delete]
func (c *BandController) DeleteBand(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	if appErr := c.BandService.DeleteBand(ctx.Request().Context(), actor, bandID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Band deleted successfully")
}

// JoinBand handles POST /bands/join
// @Summary Join a band with an invite code
// @Tags Band
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.JoinBandRequest true "Invite code"
// @Success 200 {object} dto.BandResponse
// @Router /private/bands/join [post]
func (c *BandController) JoinBand(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.JoinBandRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.BandService.JoinByInviteCode(ctx.Request().Context(), actor, req.InviteCode)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined band successfully")
}

// ChangeMemberRole handles PUT /bands/:id/members/:userId/role
// @Summary Change a member's role
// @Tags Band
// @Security BearerAuth
// @Accept json
// @Param id path string true "Band ID"
// @Param userId path string true "User ID"
// @Param request body dto.ChangeRoleRequest true "New role"
// @Success 200 {object} map[string]string
// @Router /private/bands/{id}/members/{userId}/role [put]
func (c *BandController) ChangeMemberRole(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}
	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	var req dto.ChangeRoleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.BandService.ChangeMemberRole(ctx.Request().Context(), actor, bandID, userID, req.Role); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Role updated successfully")
}

// RemoveMember handles DELETE /bands/:id/members/:userId
// @Summary Remove a member (or leave the band)
// @Tags Band
// @Security BearerAuth
// @Param id path string true "Band ID"
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]string
// @Router /private/bands/{id}/members/{userId} [delete]
func (c *BandController) RemoveMember(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}
	userID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	if appErr := c.BandService.RemoveMember(ctx.Request().Context(), actor, bandID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Member removed")
}

// CreateLocation handles POST /bands/:id/locations
// @Summary Add a rehearsal location to a band
// @Tags Band
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param request body dto.CreateLocationRequest true "Location info"
// @Success 200 {object} dto.LocationResponse
// @Router /private/bands/{id}/locations [post]
func (c *BandController) CreateLocation(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	var req dto.CreateLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.BandService.CreateLocation(ctx.Request().Context(), actor, bandID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Location created successfully")
}

// GetLocations handles GET /bands/:id/locations
// @Summary List a band's locations
// @Tags Band
// @Security BearerAuth
// @Produce json
// @Param id path string true "Band ID"
// @Success 200 {array} dto.LocationResponse
// @Router /private/bands/{id}/locations [get]
func (c *BandController) GetLocations(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	result, appErr := c.BandService.GetLocations(ctx.Request().Context(), actor, bandID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Locations retrieved")
}
