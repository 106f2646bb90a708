package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_ToResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NewResponse(c).ToResponse(code.ErrorReadOnlyAccess.WithDetails("session is read only"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var res Res
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, code.ErrorReadOnlyAccess.Code(), res.Code)
	assert.False(t, res.Status)
	assert.Equal(t, "session is read only", res.Details)
}

func TestResponse_ToResponseList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NewResponse(c).ToResponseList(code.Success, []string{"a", "b"}, 2)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"list":["a","b"],"total":2}`, gjsonData(t, w.Body.Bytes()))
}

func gjsonData(t *testing.T, body []byte) string {
	var res struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	return string(res.Data)
}

type createVaultForm struct {
	Name string `json:"name" binding:"required"`
}

func TestBindAndValid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var form createVaultForm
	ok, errs := BindAndValid(c, &form)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "Name", errs[0].Key)

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"team"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	ok, errs = BindAndValid(c, &form)
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Equal(t, "team", form.Name)

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")
	ok, errs = BindAndValid(c, &form)
	assert.False(t, ok)
	assert.Equal(t, "body", errs[0].Key)
}
