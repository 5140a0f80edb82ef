package handler

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/usecase"
	"ojalocal/pkg/response"
	"ojalocal/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	userID := c.Get("uid").(string)

	pagination := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationUseCase.List(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, notifications, total, pagination.Page, pagination.PageSize)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	notificationID := c.Param("id")

	if err := h.notificationUseCase.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}
