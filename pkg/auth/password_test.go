package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "frontDesk42", false},
		{"too short", "ab1", true},
		{"no digit", "onlyletters", true},
		{"no letter", "1234567890", true},
		{"common", "Password123", true},
		{"too long", string(make([]byte, 80)) + "a1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				var pve *PasswordValidationError
				assert.True(t, errors.As(err, &pve))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPasswordWithCost("frontDesk42", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "frontDesk42", hash)

	assert.NoError(t, ComparePassword(hash, "frontDesk42"))
	assert.ErrorIs(t, ComparePassword(hash, "frontDesk43"), ErrPasswordMismatch)
}

func TestComparePassword_CorruptHash(t *testing.T) {
	err := ComparePassword("not-a-bcrypt-hash", "whatever1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}
