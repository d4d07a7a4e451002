package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, err := signer.IssueToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := signer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSigner_WrongSecret(t *testing.T) {
	token, err := NewSigner("secret-a", time.Hour).IssueToken(1)
	require.NoError(t, err)

	_, err = NewSigner("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestSigner_Expired(t *testing.T) {
	signer := &Signer{secret: []byte("s"), ttl: -time.Minute}

	token, err := signer.IssueToken(1)
	require.NoError(t, err)

	_, err = signer.ParseToken(token)
	assert.Error(t, err)
}

func TestSigner_Garbage(t *testing.T) {
	signer := NewSigner("s", time.Hour)

	_, err := signer.ParseToken("не.токен.вовсе")
	assert.Error(t, err)
}

func TestSigner_DefaultTTL(t *testing.T) {
	signer := NewSigner("s", 0)
	assert.Equal(t, 24*time.Hour, signer.ttl)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "неверный пароль"))
}
