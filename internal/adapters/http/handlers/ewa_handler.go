package handlers

import (
	"errors"
	"strconv"

	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/core/services"
	"shomvob-wagely/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EWAHandler handles withdrawal quote and submission endpoints
type EWAHandler struct {
	authService       *services.AuthService
	withdrawalService *services.WithdrawalService
}

// NewEWAHandler creates a new EWA handler
func NewEWAHandler(authService *services.AuthService, withdrawalService *services.WithdrawalService) *EWAHandler {
	return &EWAHandler{
		authService:       authService,
		withdrawalService: withdrawalService,
	}
}

// WithdrawRequest represents the withdrawal submission body
type WithdrawRequest struct {
	Amount int `json:"amount"`
}

// Quote previews a withdrawal amount
// @Summary Withdrawal quote
// @Description Fee, total and guard state for an amount (default when omitted)
// @Tags EWA
// @Produce json
// @Security BearerAuth
// @Param amount query int false "Requested amount"
// @Success 200 {object} response.Response
// @Router /ewa/quote [get]
func (h *EWAHandler) Quote(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	amount, _ := strconv.Atoi(c.Query("amount", "0"))

	quote, err := h.withdrawalService.Quote(c.Context(), auth, amount)
	if err != nil {
		if errors.Is(err, domain.ErrAuthMissing) {
			return response.Unauthorized(c, "Please login again")
		}
		return response.BadGateway(c, "Failed to build withdrawal quote")
	}
	return response.Success(c, "Quote ready", quote)
}

// Submit submits a withdrawal request
// @Summary Submit withdrawal
// @Tags EWA
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body WithdrawRequest true "Amount to withdraw"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /ewa/request [post]
func (h *EWAHandler) Submit(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.withdrawalService.Submit(c.Context(), auth, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubmissionInFlight):
			return response.Conflict(c, "A withdrawal request is already being submitted")
		case errors.Is(err, domain.ErrPendingRequest):
			return response.Conflict(c, "You already have a pending withdrawal request")
		case errors.Is(err, domain.ErrWithdrawLimitExceeded):
			return response.UnprocessableEntity(c, "Monthly withdrawal limit exceeded")
		case errors.Is(err, domain.ErrEWADisabled):
			return response.UnprocessableEntity(c, "Earned wage access is not enabled for your account")
		case errors.Is(err, domain.ErrBelowMinimum):
			return response.UnprocessableEntity(c, "Your claimable wages are below the minimum withdrawable amount")
		case errors.Is(err, domain.ErrInvalidAmount):
			return response.BadRequest(c, "Withdrawal amount must be greater than zero")
		case errors.Is(err, domain.ErrServiceUnavailable):
			return response.BadGateway(c, "Withdrawal service is temporarily unavailable")
		case errors.Is(err, domain.ErrNetwork):
			return response.BadGateway(c, "Could not reach the withdrawal service")
		case errors.Is(err, domain.ErrAuthMissing):
			return response.Unauthorized(c, "Please login again")
		default:
			return response.UnprocessableEntity(c, "Withdrawal request was rejected")
		}
	}

	return response.Created(c, "Withdrawal request submitted", tx)
}
