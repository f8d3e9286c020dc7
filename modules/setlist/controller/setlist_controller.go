package controller

import (
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	authController "bandmate-api/modules/auth/controller"
	"bandmate-api/modules/setlist/dto"
	"bandmate-api/modules/setlist/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SetlistController handles setlist HTTP requests
type SetlistController struct {
	controller.BaseController
	SetlistService service.SetlistServiceInterface
}

// NewSetlistController creates a new controller
func NewSetlistController(svc service.SetlistServiceInterface) *SetlistController {
	return &SetlistController{
		BaseController: controller.NewBaseController(),
		SetlistService: svc,
	}
}

func (c *SetlistController) actorFromContext(ctx echo.Context) (service.Actor, error) {
	claims, err := authController.GetClaimsFromContext(ctx)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// Create handles POST /bands/:id/setlists
// @Summary Create a setlist
// @Tags Setlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Band ID"
// @Param request body dto.CreateSetlistRequest true "Setlist info"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/bands/{id}/setlists [post]
func (c *SetlistController) Create(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	var req dto.CreateSetlistRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.SetlistService.Create(ctx.Request().Context(), actor, bandID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Setlist created successfully")
}

// List handles GET /bands/:id/setlists
// @Summary List a band's setlists
// @Tags Setlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Band ID"
// @Success 200 {array} dto.SetlistResponse
// @Router /private/bands/{id}/setlists [get]
func (c *SetlistController) List(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	bandID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid band ID")
	}

	result, appErr := c.SetlistService.ListByBand(ctx.Request().Context(), actor, bandID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Setlists retrieved")
}

// Get handles GET /setlists/:id
// @Summary Get a setlist with its songs
// @Tags Setlist
// @Security BearerAuth
// @Produce json
// @Param id path string true "Setlist ID"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/setlists/{id} [get]
func (c *SetlistController) Get(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}

	result, appErr := c.SetlistService.Get(ctx.Request().Context(), actor, setlistID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Setlist retrieved")
}

// Update handles PUT /setlists/:id
// @Summary Update setlist name or description
// @Tags Setlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Setlist ID"
// @Param request body dto.UpdateSetlistRequest true "Fields to update"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/setlists/{id} [put]
func (c *SetlistController) Update(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}

	var req dto.UpdateSetlistRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.SetlistService.Update(ctx.Request().Context(), actor, setlistID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Setlist updated successfully")
}

// Delete handles DELETE /setlists/:id
// @Summary Delete a setlist
// @Tags Setlist
// @Security BearerAuth
// @Param id path string true "Setlist ID"
// @Success 200 {object} map[string]string
// @Router /private/setlists/{id} [delete]
func (c *SetlistController) Delete(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}

	if appErr := c.SetlistService.Delete(ctx.Request().Context(), actor, setlistID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Setlist deleted successfully")
}

// AddSong handles POST /setlists/:id/songs
// @Summary Add a song to a setlist
// @Tags Setlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Setlist ID"
// @Param request body dto.AddSongRequest true "Song info"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/setlists/{id}/songs [post]
func (c *SetlistController) AddSong(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}

	var req dto.AddSongRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.SetlistService.AddSong(ctx.Request().Context(), actor, setlistID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Song added")
}

// ReorderSongs handles PUT /setlists/:id/songs/order
// @Summary Reorder a setlist's songs
// @Tags Setlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Setlist ID"
// @Param request body dto.ReorderSongsRequest true "Song IDs in desired order"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/setlists/{id}/songs/order [put]
func (c *SetlistController) ReorderSongs(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}

	var req dto.ReorderSongsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.SetlistService.ReorderSongs(ctx.Request().Context(), actor, setlistID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Songs reordered")
}

// DeleteSong handles DELETE /setlists/:id/songs/:songId
// @Summary Remove a song from a setlist
// @Tags Setlist
// @Security BearerAuth
// @Param id path string true "Setlist ID"
// @Param songId path string true "Song ID"
// @Success 200 {object} map[string]string
// @Router /private/setlists/{id}/songs/{songId} [delete]
func (c *SetlistController) DeleteSong(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}
	songID, err := uuid.Parse(ctx.Param("songId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid song ID")
	}

	if appErr := c.SetlistService.DeleteSong(ctx.Request().Context(), actor, setlistID, songID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Song removed")
}

// UploadAttachment handles POST /setlists/:id/songs/:songId/attachment
// @Summary Upload a chart or lyric sheet for a song
// @Tags Setlist
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Setlist ID"
// @Param songId path string true "Song ID"
// @Param file formData file true "Attachment file"
// @Success 200 {object} dto.SetlistResponse
// @Router /private/setlists/{id}/songs/{songId}/attachment [post]
func (c *SetlistController) UploadAttachment(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	setlistID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid setlist ID")
	}
	songID, err := uuid.Parse(ctx.Param("songId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid song ID")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Missing file")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Cannot read file")
	}
	defer file.Close()

	result, appErr := c.SetlistService.UploadAttachment(ctx.Request().Context(), actor, setlistID, songID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Attachment uploaded")
}
