package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-auth/internal/security"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := security.NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "ana@x.com", "Ana")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UID)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := security.NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "a@b.c", "A")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	issuer := security.NewTokenIssuer("key-one", time.Hour)
	other := security.NewTokenIssuer("key-two", time.Hour)

	token, err := issuer.Issue(1, "a@b.c", "A")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := security.NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, security.ErrInvalidToken, "token %q", token)
	}
}
