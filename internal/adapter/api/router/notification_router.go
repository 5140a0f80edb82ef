package router

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/adapter/api/handler"
	"ojalocal/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
}
