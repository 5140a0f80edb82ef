package router

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/adapter/api/handler"
	"ojalocal/internal/adapter/api/middleware"
)

// SetupMessageRouter registers the messages resource. GET serves both
// the inbox and a single conversation depending on query parameters.
func SetupMessageRouter(e *echo.Echo, messageHandler *handler.MessageHandler, authMiddleware *middleware.AuthMiddleware) {
	messages := e.Group("/v1/messages")
	messages.Use(authMiddleware.Authenticate)

	messages.GET("", messageHandler.Get)
	messages.POST("", messageHandler.Send)
	messages.PUT("", messageHandler.MarkRead)
}
