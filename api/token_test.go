package api

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	impl, _ := newTestServer(t)
	user := createUser(t, impl, "sub-1", "seller")

	tokenString := mintToken(t, impl, user)
	claims, err := ParseAndValidateToken(tokenString, impl.config.Auth.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "seller", claims.Username)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParseAndValidateToken_RejectsOtherKey(t *testing.T) {
	impl, _ := newTestServer(t)
	user := createUser(t, impl, "sub-1", "seller")
	tokenString := mintToken(t, impl, user)

	_, otherKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, err = ParseAndValidateToken(tokenString, otherKey)
	assert.Error(t, err)
}

func TestParseAndValidateToken_RejectsGarbage(t *testing.T) {
	impl, _ := newTestServer(t)
	_, err := ParseAndValidateToken("definitely-not-a-token", impl.config.Auth.PrivateKey)
	assert.Error(t, err)
}
