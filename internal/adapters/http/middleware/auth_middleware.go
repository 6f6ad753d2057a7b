package middleware

import (
	"errors"
	"strings"

	"shomvob-wagely/internal/config"
	"shomvob-wagely/internal/pkg/jwt"
	"shomvob-wagely/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the gateway device token and puts the device
// identity into request locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var deviceToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			deviceToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if deviceToken == "" {
			return response.Unauthorized(c, "Device token required")
		}

		claims, err := jwt.ValidateDeviceToken(deviceToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Device token expired")
			}
			return response.Unauthorized(c, "Invalid device token")
		}

		c.Locals("deviceID", claims.DeviceID)
		c.Locals("phone", claims.Phone)

		return c.Next()
	}
}

// DeviceID returns the authenticated device id from request locals.
func DeviceID(c *fiber.Ctx) string {
	if id, ok := c.Locals("deviceID").(string); ok {
		return id
	}
	return ""
}

// Phone returns the authenticated phone from request locals.
func Phone(c *fiber.Ctx) string {
	if p, ok := c.Locals("phone").(string); ok {
		return p
	}
	return ""
}
