package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess_WhenCalled_ThenWrapsDataAndMessage(t *testing.T) {
	// Arrange
	c, w := newContext()

	// Act
	Success(c, http.StatusOK, map[string]string{"key": "value"}, "success message")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data    map[string]string `json:"data"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "value", body.Data["key"])
	assert.Equal(t, "success message", body.Message)
}

func TestError_WhenRequestIDSet_ThenEchoesItAsTraceID(t *testing.T) {
	// Arrange
	c, w := newContext()
	c.Set(RequestIDKey, "test-trace-id")

	// Act
	Error(c, http.StatusBadRequest, "test error", []string{"name: required"})

	// Assert
	body := decodeError(t, w)
	assert.Equal(t, "test error", body.Error)
	assert.Equal(t, "test-trace-id", body.TraceID)
	assert.Equal(t, []interface{}{"name: required"}, body.Details)
}

func TestError_WhenRequestIDMissing_ThenGeneratesTraceID(t *testing.T) {
	c, w := newContext()

	Error(c, http.StatusInternalServerError, "boom", nil)

	_, err := uuid.Parse(decodeError(t, w).TraceID)
	assert.NoError(t, err)
}

func TestHelpers_WhenCalled_ThenUseExpectedStatus(t *testing.T) {
	tests := []struct {
		name string
		call func(c *gin.Context)
		want int
	}{
		{name: "bad request", call: func(c *gin.Context) { BadRequest(c, "bad", nil) }, want: http.StatusBadRequest},
		{name: "unauthorized", call: func(c *gin.Context) { Unauthorized(c, "who") }, want: http.StatusUnauthorized},
		{name: "forbidden", call: func(c *gin.Context) { Forbidden(c, "no") }, want: http.StatusForbidden},
		{name: "not found", call: func(c *gin.Context) { NotFound(c, "gone") }, want: http.StatusNotFound},
		{name: "conflict", call: func(c *gin.Context) { Conflict(c, "dup", nil) }, want: http.StatusConflict},
		{name: "internal", call: func(c *gin.Context) { InternalServerError(c, "oops") }, want: http.StatusInternalServerError},
		{name: "created", call: func(c *gin.Context) { Created(c, "x", "made") }, want: http.StatusCreated},
		{name: "ok", call: func(c *gin.Context) { OK(c, "x") }, want: http.StatusOK},
		{name: "message", call: func(c *gin.Context) { Message(c, "done") }, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()
			tt.call(c)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUnauthorized_WhenCalled_ThenSetsBearerChallenge(t *testing.T) {
	c, w := newContext()

	Unauthorized(c, "Not authenticated")

	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "Not authenticated", decodeError(t, w).Error)
}

func TestAbort_WhenCalled_ThenStopsChain(t *testing.T) {
	c, w := newContext()

	Abort(c, http.StatusUnauthorized, "invalid token")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid token", decodeError(t, w).Error)
}

func TestGetRequestID_WhenValueIsNotString_ThenGeneratesNew(t *testing.T) {
	c, _ := newContext()
	c.Set(RequestIDKey, 12345)

	id := GetRequestID(c)

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}
