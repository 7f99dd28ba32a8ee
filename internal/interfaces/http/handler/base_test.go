package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banking/customer-service/internal/domain/shared"
	"github.com/banking/customer-service/internal/interfaces/http/dto"
	"github.com/banking/customer-service/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.RequestIDKey, "req-base")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", shared.NewValidationError("Email is required"), http.StatusBadRequest, dto.ErrCodeValidation, "Email is required"},
		{"not found", shared.NewNotFoundError("Customer not found"), http.StatusNotFound, dto.ErrCodeNotFound, "Customer not found"},
		{"already exists", shared.NewDuplicateError("Email already registered"), http.StatusConflict, dto.ErrCodeAlreadyExists, "Email already registered"},
		{"illegal profile", shared.NewIllegalProfileError("Unknown profile GOLD"), http.StatusBadRequest, dto.ErrCodeIllegalProfile, "Unknown profile GOLD"},
		{"store unavailable", shared.NewTransientStoreError("Customer store unavailable", errors.New("dial tcp")), http.StatusServiceUnavailable, dto.ErrCodeStoreUnavailable, "Customer store unavailable"},
		{"wrapped domain error", fmt.Errorf("lookup: %w", shared.NewNotFoundError("gone")), http.StatusNotFound, dto.ErrCodeNotFound, "gone"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-base", resp.Error.RequestID)
		})
	}
}
