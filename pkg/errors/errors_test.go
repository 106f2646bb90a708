package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-vault-sync-service/internal/middleware"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.TraceIDKey, "trace-1")
	ErrorResponse(c, err)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) AppError {
	t.Helper()
	var body AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorResponse_UsesCodeStatus(t *testing.T) {
	w := respond(fmt.Errorf("lookup: %w", code.ErrorSharedVaultNotFound.WithDetails("abc")))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := decode(t, w)
	assert.Equal(t, code.ErrorSharedVaultNotFound.Code(), body.Code)
	assert.False(t, body.Status)
	assert.Equal(t, []string{"abc"}, body.Details)
	assert.Equal(t, "trace-1", body.TraceID)
}

func TestErrorResponse_HidesUnknownErrors(t *testing.T) {
	w := respond(fmt.Errorf("dial tcp 10.0.0.1:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decode(t, w)
	assert.Equal(t, code.ErrorServerInternal.Code(), body.Code)
	assert.Empty(t, body.Details)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestErrorResponse_Timeout(t *testing.T) {
	w := respond(fmt.Errorf("find items: %w", context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, code.ErrorRequestTimeout.Code(), decode(t, w).Code)
}

func TestErrorResponse_AppError(t *testing.T) {
	w := respond(New(code.ErrorSharedVaultPermission, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, code.ErrorSharedVaultPermission.Code(), decode(t, w).Code)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(code.ErrorDBQuery, cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "disk full")
}
