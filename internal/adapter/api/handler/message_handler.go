package handler

import (
	"github.com/labstack/echo/v4"

	"ojalocal/internal/usecase"
	"ojalocal/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	Content    string `json:"content" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
	ListingID  string `json:"listingId" validate:"required"`
}

type markReadRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
}

// Get serves both read paths of the messages resource: with listingId
// and conversationWith it returns one conversation's messages, without
// them it returns the caller's inbox.
func (h *MessageHandler) Get(c echo.Context) error {
	userID := c.Get("uid").(string)

	listingID := c.QueryParam("listingId")
	conversationWith := c.QueryParam("conversationWith")

	if listingID != "" || conversationWith != "" {
		messages, err := h.messageUseCase.GetMessages(c.Request().Context(), userID, listingID, conversationWith)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, messages)
	}

	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ReceiverID: req.ReceiverID,
		ListingID:  req.ListingID,
		Content:    req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	updated, err := h.messageUseCase.MarkConversationRead(c.Request().Context(), userID, req.ConversationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"updated": updated})
}
