package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-auth/internal/security"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "secret1")

	assert.True(t, security.CheckPassword(hash, "secret1"))
	assert.False(t, security.CheckPassword(hash, "secret2"))
	assert.False(t, security.CheckPassword(hash, ""))
}

func TestHashPassword_NoLengthMaximum(t *testing.T) {
	long := strings.Repeat("a", 100)

	hash, err := security.HashPassword(long)
	require.NoError(t, err)

	assert.True(t, security.CheckPassword(hash, long))
	// a 72-byte prefix of the password must not verify
	assert.False(t, security.CheckPassword(hash, strings.Repeat("a", 72)))
	assert.False(t, security.CheckPassword(hash, long+"b"))
}

func TestHashPassword_SaltedOutput(t *testing.T) {
	first, err := security.HashPassword("same-password")
	require.NoError(t, err)
	second, err := security.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, security.CheckPassword(first, "same-password"))
	assert.True(t, security.CheckPassword(second, "same-password"))
}
