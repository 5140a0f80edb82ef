package router

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/adapter/api/handler"
	"ojalocal/internal/adapter/api/middleware"
)

func SetupTransactionRouter(e *echo.Echo, transactionHandler *handler.TransactionHandler, authMiddleware *middleware.AuthMiddleware) {
	transactions := e.Group("/v1/transactions")
	transactions.Use(authMiddleware.Authenticate)

	transactions.POST("", transactionHandler.Initiate)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.POST("/:id/confirm", transactionHandler.Confirm)
	transactions.DELETE("/:id", transactionHandler.Cancel)
}
