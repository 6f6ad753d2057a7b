package routes

import (
	"shomvob-wagely/internal/adapters/http/handlers"
	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/config"
	"shomvob-wagely/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Deps are the services the routes wire into handlers. They are built
// in main so the cron service can share the credential store and guard.
type Deps struct {
	Auth         *services.AuthService
	Earnings     *services.EarningsService
	Transactions *services.TransactionService
	Withdrawals  *services.WithdrawalService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.Auth)
	earningsHandler := handlers.NewEarningsHandler(deps.Auth, deps.Earnings)
	ewaHandler := handlers.NewEWAHandler(deps.Auth, deps.Withdrawals)
	transactionHandler := handlers.NewTransactionHandler(deps.Auth, deps.Transactions)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	authRequired := middleware.AuthMiddleware(cfg)

	// Auth routes - OTP endpoints are public with the stricter rate
	// limit; the rest of the group needs the device token
	auth := apiV1.Group("/auth")
	auth.Post("/otp", middleware.AuthRateLimiter(), authHandler.SendOTP)
	auth.Post("/verify", middleware.AuthRateLimiter(), authHandler.VerifyOTP)
	auth.Post("/logout", authRequired, authHandler.Logout)
	auth.Get("/session", authRequired, authHandler.Session)

	// Profile routes
	profile := apiV1.Group("/profile", authRequired)
	profile.Get("/", authHandler.GetProfile)
	profile.Patch("/", authHandler.UpdateProfile)

	// Earnings routes
	earnings := apiV1.Group("/earnings", authRequired)
	earnings.Get("/", earningsHandler.Snapshot)
	earnings.Post("/refresh", earningsHandler.Refresh)

	// EWA withdrawal routes
	ewa := apiV1.Group("/ewa", authRequired)
	ewa.Get("/settings", earningsHandler.Settings)
	ewa.Get("/quote", ewaHandler.Quote)
	ewa.Post("/request", ewaHandler.Submit)

	// Transaction history routes
	transactions := apiV1.Group("/transactions", authRequired)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/summary", transactionHandler.Summary)
	transactions.Post("/refresh", transactionHandler.Refresh)
}
