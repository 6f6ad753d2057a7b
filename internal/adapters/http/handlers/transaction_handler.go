package handlers

import (
	"errors"

	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/core/services"
	"shomvob-wagely/internal/pkg/pagination"
	"shomvob-wagely/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles withdrawal history endpoints
type TransactionHandler struct {
	authService        *services.AuthService
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(authService *services.AuthService, transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		authService:        authService,
		transactionService: transactionService,
	}
}

// List returns the paginated withdrawal history
// @Summary Withdrawal history
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	list, loaded := h.transactionService.All(auth.Phone)
	if !loaded {
		if err := h.transactionService.Refresh(c.Context(), auth); err != nil {
			return response.BadGateway(c, "Failed to fetch transaction history")
		}
		list, _ = h.transactionService.All(auth.Phone)
	}

	// Present newest first, same order as the All bucket.
	sorted := domain.PartitionTransactions(list).All

	params := pagination.GetParams(c)
	start, end := params.Slice(len(sorted))

	return response.Success(c, "Transactions loaded", fiber.Map{
		"transactions": sorted[start:end],
		"pagination":   pagination.GetMeta(params, int64(len(sorted))),
	})
}

// Summary returns the tabbed bucket view
// @Summary Transaction buckets
// @Description History split into approved, pending and rejected tabs
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	if _, loaded := h.transactionService.All(auth.Phone); !loaded {
		if err := h.transactionService.Refresh(c.Context(), auth); err != nil {
			return response.BadGateway(c, "Failed to fetch transaction history")
		}
	}

	buckets := h.transactionService.Buckets(auth.Phone)
	return response.Success(c, "Transaction summary loaded", fiber.Map{
		"buckets":     buckets,
		"has_pending": h.transactionService.HasPending(auth.Phone),
	})
}

// Refresh forces a history re-fetch
// @Summary Refresh history
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /transactions/refresh [post]
func (h *TransactionHandler) Refresh(c *fiber.Ctx) error {
	auth, err := h.authService.Auth(c.Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Unauthorized(c, "Please login again")
	}

	if err := h.transactionService.Refresh(c.Context(), auth); err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return response.BadGateway(c, "Could not reach the payroll service")
		}
		return response.BadGateway(c, "Failed to refresh transaction history")
	}
	return response.Success(c, "Transaction history refreshed", h.transactionService.Buckets(auth.Phone))
}
