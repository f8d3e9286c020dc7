package controller

import (
	"bandmate-api/core/controller"
	"bandmate-api/core/errors"
	"bandmate-api/core/params"
	authcontroller "bandmate-api/modules/auth/controller"
	"bandmate-api/modules/notification/dto"
	"bandmate-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// NotificationController handles in-app notification HTTP requests
type NotificationController struct {
	controller.BaseController
	NotificationService service.NotificationServiceInterface
}

func NewNotificationController(svc service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		BaseController:      controller.NewBaseController(),
		NotificationService: svc,
	}
}

// GetMyNotifications handles GET /private/notifications
// @Summary List my notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} entity.PaginatedNotificationEntity
// @Router /private/notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	queryParams := params.NewQueryParams(ctx)
	result, err := c.NotificationService.GetMyNotifications(ctx.Request().Context(), userID, queryParams)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to get notifications")
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CountUnread handles GET /private/notifications/unread-count
// @Summary Count my unread notifications
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UnreadCountResponse
// @Router /private/notifications/unread-count [get]
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	count, err := c.NotificationService.CountUnread(ctx.Request().Context(), userID)
	if err != nil {
		return c.InternalServerError(errors.ErrGetFailed, "Failed to count notifications")
	}

	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Success")
}

// MarkAsRead handles POST /private/notifications/read
// @Summary Mark selected notifications as read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Param request body dto.MarkReadRequest true "Notification IDs"
// @Success 200 {object} map[string]string
// @Router /private/notifications/read [post]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.MarkReadRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if err := c.NotificationService.MarkAsRead(ctx.Request().Context(), userID, req.IDs); err != nil {
		return c.InternalServerError(errors.ErrUpdateFailed, "Failed to mark notifications as read")
	}

	return c.SuccessResponse(ctx, nil, "Notifications marked as read")
}

// MarkAllAsRead handles POST /private/notifications/read-all
// @Summary Mark all my notifications as read
// @Tags Notification
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /private/notifications/read-all [post]
func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	userID, err := authcontroller.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	if err := c.NotificationService.MarkAllAsRead(ctx.Request().Context(), userID); err != nil {
		return c.InternalServerError(errors.ErrUpdateFailed, "Failed to mark notifications as read")
	}

	return c.SuccessResponse(ctx, nil, "All notifications marked as read")
}
