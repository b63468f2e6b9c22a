package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest_UsesJSONFieldNames(t *testing.T) {
	err := ValidateRequest(RegisterRequest{Name: "A", Email: "not-an-email", Password: "x", Role: "doctor"})

	require.Error(t, err)
	assert.Equal(t, "email: must be a valid email address", err.Error())
}

func TestValidateRequest_Valid(t *testing.T) {
	assert.NoError(t, ValidateRequest(LoginRequest{Email: "a@b.test", Password: "x"}))
}
