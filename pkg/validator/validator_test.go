package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type inviteForm struct {
	UserUUID   string `binding:"required,uuid_canonical"`
	Permission string `binding:"required,permission"`
}

func TestCustomRules(t *testing.T) {
	cv := NewCustomValidator()
	Register(cv.Engine().(*validator.Validate))

	ok := inviteForm{UserUUID: "84f1b2d4-6e7a-4c5e-9a51-3f0f7c1d2e3b", Permission: "write"}
	assert.NoError(t, cv.ValidateStruct(&ok))

	bad := inviteForm{UserUUID: "{84f1b2d4-6e7a-4c5e-9a51-3f0f7c1d2e3b}", Permission: "owner"}
	assert.Error(t, cv.ValidateStruct(&bad))

	assert.NoError(t, cv.ValidateStruct("not a struct"))
}

func TestIsCanonicalUUID(t *testing.T) {
	assert.True(t, IsCanonicalUUID("84f1b2d4-6e7a-4c5e-9a51-3f0f7c1d2e3b"))
	assert.False(t, IsCanonicalUUID("84f1b2d46e7a4c5e9a513f0f7c1d2e3b"))
	assert.False(t, IsCanonicalUUID("urn:uuid:84f1b2d4-6e7a-4c5e-9a51-3f0f7c1d2e3b"))
	assert.False(t, IsCanonicalUUID(""))
}
