package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Greater(t, claims.Expiry, float64(time.Now().Unix()))
}

func TestVerifyTokenBearerPrefix(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken(7, "a@b.com")
	require.NoError(t, err)

	claims, err := auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := SetupAuth("secret-one", time.Hour).GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	_, err = SetupAuth("secret-two", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	auth := Auth{Secret: "test-secret", TTL: -time.Minute}

	token, err := auth.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenMissing(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	_, err := auth.VerifyToken("")
	assert.Error(t, err)

	_, err = auth.VerifyToken("Bearer ")
	assert.Error(t, err)

	_, err = auth.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGenerateTokenMissingInputs(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	_, err := auth.GenerateToken(0, "a@b.com")
	assert.Error(t, err)

	_, err = auth.GenerateToken(1, "")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	hashed, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)
	assert.NotContains(t, hashed, "hunter22")

	assert.NoError(t, auth.VerifyPassword("hunter22", hashed))
	assert.Error(t, auth.VerifyPassword("wrong", hashed))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	assert.Error(t, auth.VerifyPassword("hunter22", "not-a-bcrypt-hash"))
	assert.Error(t, auth.VerifyPassword("hunter22", ""))
}

func TestSetupAuthDefaultTTL(t *testing.T) {
	auth := SetupAuth("test-secret", 0)
	assert.Equal(t, 8*time.Hour, auth.TTL)
}
