package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth() Auth {
	return SetupAuth("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
}

func TestGenerateAndVerifyAccessToken(t *testing.T) {
	auth := testAuth()

	token, err := auth.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Greater(t, claims.Expiry, float64(time.Now().Unix()))
}

func TestGenerateToken_MissingUserID(t *testing.T) {
	auth := testAuth()

	_, err := auth.GenerateAccessToken(0)
	assert.Error(t, err)
}

func TestVerifyToken_WrongClassSecret(t *testing.T) {
	auth := testAuth()

	// a refresh token must never verify as an access token
	refresh, err := auth.GenerateRefreshToken(7)
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(refresh)
	assert.Error(t, err)

	_, err = auth.VerifyRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	auth := SetupAuth("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := auth.GenerateAccessToken(7)
	require.NoError(t, err)

	_, err = auth.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth := testAuth()

	_, err := auth.VerifyAccessToken("")
	assert.Error(t, err)

	_, err = auth.VerifyAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	auth := testAuth()

	hashed, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hashed)

	assert.NoError(t, auth.VerifyPassword("s3cret-pass", hashed))
	assert.Error(t, auth.VerifyPassword("wrong-pass", hashed))
}
