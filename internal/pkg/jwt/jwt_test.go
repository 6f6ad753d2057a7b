package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceTokenRoundTrip(t *testing.T) {
	token, err := GenerateDeviceToken("dev-1", "8801712345678", "emp-42", "secret", 1)
	require.NoError(t, err)

	claims, err := ValidateDeviceToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", claims.DeviceID)
	assert.Equal(t, "8801712345678", claims.Phone)
	assert.Equal(t, "emp-42", claims.UserID)
	assert.Equal(t, "wagely-gateway", claims.Issuer)
}

func TestValidateDeviceToken_WrongSecret(t *testing.T) {
	token, err := GenerateDeviceToken("dev-1", "8801712345678", "emp-42", "secret", 1)
	require.NoError(t, err)

	_, err = ValidateDeviceToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateDeviceToken_Expired(t *testing.T) {
	token, err := GenerateDeviceToken("dev-1", "8801712345678", "emp-42", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateDeviceToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateDeviceToken_Garbage(t *testing.T) {
	_, err := ValidateDeviceToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
