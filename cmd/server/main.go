package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shomvob-wagely/internal/adapters/http/middleware"
	"shomvob-wagely/internal/adapters/http/routes"
	"shomvob-wagely/internal/adapters/payroll"
	"shomvob-wagely/internal/adapters/persistence/repositories"
	"shomvob-wagely/internal/config"
	"shomvob-wagely/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates the credential table if not exist)
	if err := config.Migrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}

	// Payroll backend client
	payrollClient := payroll.New(payroll.Config{
		EmployerBaseURL: cfg.Payroll.BaseURL,
		OTPBaseURL:      cfg.Payroll.OTPBaseURL,
		ServiceToken:    cfg.Payroll.ServiceToken,
		Timeout:         10 * time.Second,
	})

	// Credential store + services
	credStore := repositories.NewCredentialRepository(db)
	otpGuard := services.NewOTPGuard()

	authService := services.NewAuthService(credStore, payrollClient, otpGuard, services.AuthConfig{
		JWTSecret:        cfg.JWT.Secret,
		DeviceTokenHours: cfg.JWT.DeviceTokenHours,
		OTPDevMode:       cfg.OTP.DevMode,
	})
	earningsService := services.NewEarningsService(payrollClient)
	transactionService := services.NewTransactionService(payrollClient)
	withdrawalService := services.NewWithdrawalService(payrollClient, earningsService, transactionService)

	// New sessions warm the earnings and history caches automatically
	earningsService.AutoRefresh(authService)
	transactionService.AutoRefresh(authService)

	// Start cron service (credential purge + OTP sweep)
	cronService := services.NewCronService(credStore, otpGuard)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Wagely Gateway API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, routes.Deps{
		Auth:         authService,
		Earnings:     earningsService,
		Transactions: transactionService,
		Withdrawals:  withdrawalService,
	}, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
