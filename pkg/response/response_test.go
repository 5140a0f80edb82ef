package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ojalocal/pkg/errors"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorMapsAppErrorStatusAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperrors.NotFound("Listing", nil), http.StatusNotFound, "NOT_FOUND"},
		{"bad request", apperrors.BadRequest("bad", nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid state", apperrors.InvalidState("wrong state", nil), http.StatusBadRequest, "INVALID_STATE"},
		{"forbidden", apperrors.Forbidden("no", nil), http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", apperrors.Unauthorized("who", nil), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(t)
			require.NoError(t, Error(c, tc.err))

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, Success(c, map[string]string{"hello": "world"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
}

func TestPaginatedTotalPages(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, Paginated(c, []string{"a", "b"}, 21, 1, 10))

	body := decode(t, rec)
	payload, err := json.Marshal(body.Data)
	require.NoError(t, err)

	var page PaginatedResponse
	require.NoError(t, json.Unmarshal(payload, &page))
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}
