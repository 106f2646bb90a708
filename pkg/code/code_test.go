package code

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_WithDetailsDoesNotMutateShared(t *testing.T) {
	withDetails := ErrorDBQuery.WithDetails("connection refused")

	assert.True(t, withDetails.HaveDetails())
	assert.Equal(t, []string{"connection refused"}, withDetails.Details())
	assert.False(t, ErrorDBQuery.HaveDetails())
	assert.True(t, errors.Is(withDetails, ErrorDBQuery))
	assert.False(t, errors.Is(withDetails, ErrorInvalidParams))
}

func TestCode_StatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, Success.StatusCode())
	assert.Equal(t, http.StatusBadRequest, ErrorInvalidSyncToken.StatusCode())
	assert.Equal(t, http.StatusForbidden, ErrorSharedVaultPermission.StatusCode())
}

func TestSetGlobalDefaultLang(t *testing.T) {
	defer SetGlobalDefaultLang("en")

	assert.NoError(t, SetGlobalDefaultLang("zh-CN"))
	assert.Equal(t, "成功", Success.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, "Success", Success.Msg())
}
