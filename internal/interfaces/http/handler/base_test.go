package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/salespos/backend/internal/domain/shared"
	"github.com/salespos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "insufficient stock maps to 409",
			err:            shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for product P001"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "INSUFFICIENT_STOCK",
		},
		{
			name:           "overpayment conflict maps to 409",
			err:            shared.NewDomainError("CONFLICT", "Payment exceeds the outstanding amount"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONFLICT",
		},
		{
			name:           "concurrent modification maps to 409",
			err:            shared.ErrConcurrencyConflict,
			expectedStatus: http.StatusConflict,
			expectedCode:   "CONCURRENT_MODIFICATION",
		},
		{
			name:           "not found maps to 404",
			err:            shared.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "invalid state maps to 422",
			err:            shared.NewDomainError("INVALID_STATE", "Cannot cancel a sale with payments already received"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INVALID_STATE",
		},
		{
			name:           "validation error maps to 400",
			err:            shared.NewDomainError("VALIDATION_ERROR", "Payment exceeds the outstanding amount"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "account locked maps to 423",
			err:            shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked"),
			expectedStatus: http.StatusLocked,
			expectedCode:   "ACCOUNT_LOCKED",
		},
		{
			name:           "unknown error maps to 500",
			err:            errors.New("driver: bad connection"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestHandleError_CarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set("X-Request-ID", "req-abc")

	h.HandleError(c, shared.ErrNotFound)

	resp := decodeResponse(t, w)
	assert.Equal(t, "req-abc", resp.Error.RequestID)
}

func TestHandleError_NilErrorWritesNothing(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, gin.H{"message": "pong"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []int{1, 2, 3}, 23, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(23), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
