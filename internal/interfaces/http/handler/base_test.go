package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, userID string) {
	c.Set(middleware.JWTUserIDKey, userID)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext()
	_, err := getUserID(c)
	assert.Error(t, err)

	setJWTContext(c, "user_1")
	userID, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "user_1", userID)
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		value string
		id    int64
		ok    bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c, _ := newTestContext()
			c.Params = gin.Params{{Key: "storeId", Value: tt.value}}

			id, ok := parseIDParam(c, "storeId")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerSuccessList(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessList(c, []string{"item1", "item2"}, 2)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Created(c, map[string]int64{"id": 123})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}

	router := gin.New()
	router.DELETE("/test", func(c *gin.Context) {
		h.NoContent(c)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid request") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"InvalidInput", func(h *BaseHandler, c *gin.Context) { h.InvalidInput(c, "Store id is required") }, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"NotFound", func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "Resource not found") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"Unauthorized", func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "Not authenticated") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"Forbidden", func(h *BaseHandler, c *gin.Context) { h.Forbidden(c, "Access denied") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "Server error") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			tt.method(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorWithRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set(middleware.RequestIDKey, "test-request-123")

	h.BadRequest(c, "Invalid request")

	assert.Equal(t, "test-request-123", decodeResponse(t, w).Error.RequestID)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"NOT_FOUND", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"ALREADY_EXISTS", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"INVALID_INPUT", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"UNAUTHORIZED", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"FORBIDDEN", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"INVALID_STATE", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"REFERENTIAL_INTEGRITY", shared.ErrReferentialIntegrity, http.StatusUnprocessableEntity, dto.ErrCodeReferentialIntegrity},
		{"INVALID_SIGNATURE", shared.ErrInvalidSignature, http.StatusBadRequest, dto.ErrCodeInvalidSignature},
		{"wrapped", fmt.Errorf("additional context: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleNonDomainError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestBaseHandlerHandleNilError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleDomainError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}
