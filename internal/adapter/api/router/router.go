package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Setup registers routes that need no authentication.
func Setup(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
