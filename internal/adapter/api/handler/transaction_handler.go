package handler

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/usecase"
	"ojalocal/pkg/response"
	"ojalocal/pkg/utils"
)

type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUseCase *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
	}
}

type initiateTransactionRequest struct {
	ListingID        string  `json:"listingId" validate:"required"`
	ConversationWith string  `json:"conversationWith" validate:"required"`
	AgreedPrice      float64 `json:"agreedPrice" validate:"required,gt=0"`
}

func (h *TransactionHandler) Initiate(c echo.Context) error {
	var req initiateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	transaction, err := h.transactionUseCase.Initiate(c.Request().Context(), userID, usecase.InitiateTransactionInput{
		ListingID:      req.ListingID,
		CounterpartyID: req.ConversationWith,
		AgreedPrice:    req.AgreedPrice,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, transaction)
}

func (h *TransactionHandler) Confirm(c echo.Context) error {
	userID := c.Get("uid").(string)
	transactionID := c.Param("id")

	transaction, err := h.transactionUseCase.Confirm(c.Request().Context(), userID, transactionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) Cancel(c echo.Context) error {
	userID := c.Get("uid").(string)
	transactionID := c.Param("id")

	transaction, err := h.transactionUseCase.Cancel(c.Request().Context(), userID, transactionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) Get(c echo.Context) error {
	userID := c.Get("uid").(string)
	transactionID := c.Param("id")

	transaction, err := h.transactionUseCase.GetByID(c.Request().Context(), userID, transactionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, transaction)
}

func (h *TransactionHandler) List(c echo.Context) error {
	userID := c.Get("uid").(string)
	status := c.QueryParam("status")

	pagination := utils.GetPaginationParams(c)

	transactions, total, err := h.transactionUseCase.List(c.Request().Context(), userID, status, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, transactions, total, pagination.Page, pagination.PageSize)
}
