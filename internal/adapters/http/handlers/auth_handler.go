package handlers

import (
	"errors"
	"strings"

	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/core/services"
	"shomvob-wagely/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles OTP login and session endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendOTPRequest represents the OTP send request body
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest represents the OTP verify request body
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// SendOTP relays an OTP to the user's phone
// @Summary Send OTP
// @Description Send a login OTP to the phone number
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SendOTPRequest true "Phone number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/otp [post]
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	if err := h.authService.SendOTP(c.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, domain.ErrOTPThrottled):
			return response.TooManyRequests(c, "OTP already sent, please wait before requesting again")
		case errors.Is(err, domain.ErrNetwork):
			return response.BadGateway(c, "Could not reach the OTP service")
		default:
			return response.InternalServerError(c, "Failed to send OTP")
		}
	}

	return response.Success(c, "OTP sent successfully", nil)
}

// VerifyOTP verifies the OTP and establishes the session
// @Summary Verify OTP
// @Description Verify the OTP and log the device in
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "Device identifier"
// @Param body body VerifyOTPRequest true "Phone and OTP"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	deviceID := strings.TrimSpace(c.Get("X-Device-ID"))
	if deviceID == "" {
		return response.BadRequest(c, "X-Device-ID header is required")
	}

	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.VerifyLogin(c.Context(), deviceID, req.Phone, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, domain.ErrOTPMalformed):
			return response.BadRequest(c, "OTP must be 4 digits")
		case errors.Is(err, domain.ErrOTPRejected):
			return response.Unauthorized(c, "Incorrect OTP")
		case errors.Is(err, domain.ErrNetwork):
			return response.BadGateway(c, "Could not reach the login service")
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"device_token": result.DeviceToken,
		"user":         result.User,
	})
}

// Logout clears the device session
// @Summary Logout
// @Description Clear the stored session for this device
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	deviceID := middleware.DeviceID(c)
	if err := h.authService.Logout(c.Context(), deviceID); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}
	return response.Success(c, "Logged out successfully", nil)
}

// Session reconciles the device's auth state
// @Summary Session bootstrap
// @Description Return the reconciled auth state for this device
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	deviceID := middleware.DeviceID(c)

	state, err := h.authService.Bootstrap(c.Context(), deviceID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load session")
	}
	return response.Success(c, "Session loaded", state)
}

// GetProfile returns the current user profile
// @Summary Current profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	deviceID := middleware.DeviceID(c)

	user, ok := h.authService.CurrentUser(deviceID)
	if !ok {
		// Cold cache after a gateway restart; rebuild from the store.
		state, err := h.authService.Bootstrap(c.Context(), deviceID)
		if err != nil || !state.Authenticated {
			return response.NotFound(c, "Profile not found, please login again")
		}
		user = state.User
	}
	return response.Success(c, "Profile loaded", user)
}

// UpdateProfile applies a partial profile update
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProfileUpdate true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [patch]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(c.Context(), middleware.DeviceID(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthMissing) {
			return response.Unauthorized(c, "Please login again")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}
	return response.Success(c, "Profile updated", user)
}
