package controller

import (
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	authController "bandmate-api/modules/auth/controller"
	"bandmate-api/modules/schedule/dto"
	"bandmate-api/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScheduleController handles scheduling HTTP requests
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

// NewScheduleController creates a new controller
func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

func (c *ScheduleController) actorFromContext(ctx echo.Context) (service.Actor, error) {
	claims, err := authController.GetClaimsFromContext(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// Propose handles POST /bands/:id/items
// @Summary Propose a rehearsal or event with candidate slots
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param request body dto.ProposeItemRequest true "Proposal"
// @Success 200 {object} dto.ItemResponse
// @Router /private/bands/{id}/items [post]
func (c *ScheduleController) Propose(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	var req dto.ProposeItemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ScheduleService.Propose(ctx.Request().Context(), actor, bandID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Item proposed successfully")
}

// ListItems handles GET /bands/:id/items
// @Summary List a band's scheduled and pending items
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param id path string true "Band ID"
// @Success 200 {array} dto.ItemResponse
// @Router /private/bands/{id}/items [get]
func (c *ScheduleController) ListItems(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	result, appErr := c.ScheduleService.ListItems(ctx.Request().Context(), actor, bandID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Items retrieved")
}

// GetItem handles GET /items/:id
// @Summary Get an item with slots, votes and suggestions
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Router /private/items/{id} [get]
func (c *ScheduleController) GetItem(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	result, appErr := c.ScheduleService.GetItem(ctx.Request().Context(), actor, itemID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Item retrieved")
}

// EditItem handles PUT /items/:id
// @Summary Edit a pending item
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.EditItemRequest true "Fields to update"
// @Success 200 {object} dto.ItemResponse
// @Router /private/items/{id} [put]
func (c *ScheduleController) EditItem(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	var req dto.EditItemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ScheduleService.EditProposal(ctx.Request().Context(), actor, itemID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Item updated successfully")
}

// DeleteItem handles DELETE /items/:id
// @Summary Delete an item and its votes
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} map[string]string
// @Router /private/items/{id} [delete]
func (c *ScheduleController) DeleteItem(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	if appErr := c.ScheduleService.DeleteProposal(ctx.Request().Context(), actor, itemID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Item deleted successfully")
}

// GetRanking handles GET /items/:id/ranking
// @Summary Rank an item's slots by consensus score
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.RankingResponse
// @Router /private/items/{id}/ranking [get]
func (c *ScheduleController) GetRanking(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	result, appErr := c.ScheduleService.GetRanking(ctx.Request().Context(), actor, itemID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Ranking computed")
}

// CastVote handles POST /items/:id/slots/:slotId/votes
// @Summary Cast or change an availability vote for a slot
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param slotId path string true "Slot ID"
// @Param request body dto.CastVoteRequest true "Availability"
// @Success 200 {object} dto.ItemResponse
// @Router /private/items/{id}/slots/{slotId}/votes [post]
func (c *ScheduleController) CastVote(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}
	slotID, err := uuid.Parse(ctx.Param("slotId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	var req dto.CastVoteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ScheduleService.CastVote(ctx.Request().Context(), actor, itemID, slotID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Vote recorded")
}

// SuggestTime handles POST /items/:id/slots/:slotId/suggestions
// @Summary Suggest an alternate time for a slot
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Param id path string true "Item ID"
// @Param slotId path string true "Slot ID"
// @Param request body dto.SuggestTimeRequest true "Suggestion text"
// @Success 200 {object} map[string]string
// @Router /private/items/{id}/slots/{slotId}/suggestions [post]
func (c *ScheduleController) SuggestTime(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}
	slotID, err := uuid.Parse(ctx.Param("slotId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	var req dto.SuggestTimeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.ScheduleService.SuggestTime(ctx.Request().Context(), actor, itemID, slotID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Suggestion recorded")
}

// Confirm handles POST /items/:id/confirm
// @Summary Confirm an item on one slot and notify members
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.ConfirmItemRequest true "Chosen slot and recipients"
// @Success 200 {object} dto.ConfirmResponse
// @Router /private/items/{id}/confirm [post]
func (c *ScheduleController) Confirm(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	var req dto.ConfirmItemRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ScheduleService.Confirm(ctx.Request().Context(), actor, itemID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Item confirmed")
}

// Reopen handles POST /items/:id/reopen
// @Summary Reopen a confirmed item for voting
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Router /private/items/{id}/reopen [post]
func (c *ScheduleController) Reopen(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	itemID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid item ID")
	}

	result, appErr := c.ScheduleService.Reopen(ctx.Request().Context(), actor, itemID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Item reopened")
}
