package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_And_Compare(t *testing.T) {
	hash, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass123", hash)

	assert.NoError(t, ComparePassword(hash, "SecurePass123"))
	assert.Error(t, ComparePassword(hash, "WrongPassword"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("SecurePass123")
	require.NoError(t, err)
	second, err := HashPassword("SecurePass123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("SecurePass123"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword(strings.Repeat("a", MaxPasswordLen+1)))
	assert.NoError(t, ValidatePassword(strings.Repeat("a", MinPasswordLen)))
}
