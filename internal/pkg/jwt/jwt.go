package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// DeviceClaims are the claims carried by a gateway-issued device token.
// The payroll access token itself never goes to the app; the device token
// is what the mobile client presents on every authenticated call.
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	Phone    string `json:"phone"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateDeviceToken generates a signed device token
func GenerateDeviceToken(deviceID, phoneNumber, userID, secret string, expiryHours int) (string, error) {
	claims := DeviceClaims{
		DeviceID: deviceID,
		Phone:    phoneNumber,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "wagely-gateway",
			Subject:   phoneNumber,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateDeviceToken validates a device token and returns its claims
func ValidateDeviceToken(tokenString, secret string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*DeviceClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
