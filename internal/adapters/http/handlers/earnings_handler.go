package handlers

import (
	"errors"

	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/core/services"
	"shomvob-wagely/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EarningsHandler handles earnings endpoints
type EarningsHandler struct {
	authService     *services.AuthService
	earningsService *services.EarningsService
}

// NewEarningsHandler creates a new earnings handler
func NewEarningsHandler(authService *services.AuthService, earningsService *services.EarningsService) *EarningsHandler {
	return &EarningsHandler{
		authService:     authService,
		earningsService: earningsService,
	}
}

// Snapshot returns the cached earnings snapshot
// @Summary Earnings snapshot
// @Description Return the cached earnings for the current pay period
// @Tags Earnings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /earnings [get]
func (h *EarningsHandler) Snapshot(c *fiber.Ctx) error {
	phone := middleware.Phone(c)

	snap := h.earningsService.Snapshot(phone)
	if snap.Data == nil && !snap.Loading {
		// Nothing cached yet: fetch synchronously so the first screen
		// load is not empty.
		auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
		if err == nil {
			_ = h.earningsService.Refresh(c.Context(), auth)
			snap = h.earningsService.Snapshot(phone)
		}
	}
	return response.Success(c, "Earnings loaded", snap)
}

// Refresh forces a fresh earnings fetch (pull-to-refresh)
// @Summary Refresh earnings
// @Tags Earnings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /earnings/refresh [post]
func (h *EarningsHandler) Refresh(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	if err := h.earningsService.Refresh(c.Context(), auth); err != nil {
		// Stale data stays available; tell the client the refresh failed.
		return response.BadGateway(c, "Failed to fetch earnings")
	}
	return response.Success(c, "Earnings refreshed", h.earningsService.Snapshot(auth.Phone))
}

// Settings returns the employer EWA policy
// @Summary Organization EWA settings
// @Tags EWA
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /ewa/settings [get]
func (h *EarningsHandler) Settings(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	settings, err := h.earningsService.Settings(c.Context(), auth)
	if err != nil {
		if errors.Is(err, domain.ErrAuthMissing) {
			return response.Unauthorized(c, "Please login again")
		}
		return response.BadGateway(c, "Failed to fetch EWA settings")
	}
	return response.Success(c, "Settings loaded", settings)
}
