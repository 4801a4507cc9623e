package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretKey = "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"

func TestGenAndParseToken(t *testing.T) {
	token, err := GenToken("1001", []byte(secretKey), time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, secretKey)
	require.NoError(t, err)
	assert.Equal(t, "1001", claims.UserId)
	assert.Equal(t, "pomelox", claims.Issuer)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenToken("1001", []byte(secretKey), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secretKey)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenToken("1001", []byte(secretKey), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "another-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt", secretKey)
	assert.Error(t, err)
}
