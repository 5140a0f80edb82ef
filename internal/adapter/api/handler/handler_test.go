package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ojalocal/internal/adapter/api"
	"ojalocal/internal/usecase"
	"ojalocal/pkg/response"
)

// Request validation fires before any repository access, so the
// handlers can run against usecases with no backing stores.

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = api.NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "test-user")
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	return body
}

func TestSendMessageRequestValidation(t *testing.T) {
	h := NewMessageHandler(usecase.NewMessageUseCase(nil, nil, nil, nil, nil, nil))

	cases := []struct {
		name string
		body string
	}{
		{"missing content", `{"receiverId":"u2","listingId":"l1"}`},
		{"missing receiver", `{"content":"hi","listingId":"l1"}`},
		{"missing listing", `{"content":"hi","receiverId":"u2"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/v1/messages", tc.body)
			require.NoError(t, h.Send(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		})
	}
}

func TestMarkReadRequestValidation(t *testing.T) {
	h := NewMessageHandler(usecase.NewMessageUseCase(nil, nil, nil, nil, nil, nil))

	c, rec := newTestContext(t, http.MethodPut, "/v1/messages", `{}`)
	require.NoError(t, h.MarkRead(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "required")
}

func TestInitiateTransactionRequestValidation(t *testing.T) {
	h := NewTransactionHandler(usecase.NewTransactionUseCase(nil, nil, nil, nil, nil, nil))

	cases := []struct {
		name string
		body string
	}{
		{"missing listing", `{"conversationWith":"u2","agreedPrice":50}`},
		{"missing counterparty", `{"listingId":"l1","agreedPrice":50}`},
		{"missing price", `{"listingId":"l1","conversationWith":"u2"}`},
		{"zero price", `{"listingId":"l1","conversationWith":"u2","agreedPrice":0}`},
		{"negative price", `{"listingId":"l1","conversationWith":"u2","agreedPrice":-1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/v1/transactions", tc.body)
			require.NoError(t, h.Initiate(c))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		})
	}
}

func TestSendMessageRejectsMalformedJSON(t *testing.T) {
	h := NewMessageHandler(usecase.NewMessageUseCase(nil, nil, nil, nil, nil, nil))

	c, rec := newTestContext(t, http.MethodPost, "/v1/messages", `{"content":`)
	require.NoError(t, h.Send(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
