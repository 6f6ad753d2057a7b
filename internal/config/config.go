package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Payroll  PayrollConfig
	OTP      OTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds device-token configuration
type JWTConfig struct {
	Secret           string
	DeviceTokenHours int
}

// PayrollConfig holds the employer payroll backend endpoints
type PayrollConfig struct {
	BaseURL      string
	OTPBaseURL   string
	ServiceToken string
}

// OTPConfig holds OTP flow configuration
type OTPConfig struct {
	DevMode bool
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev")
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Payroll:  loadPayrollConfig(appMode),
		OTP:      loadOTPConfig(appMode),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := envPrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "wagely_gateway"),
	}
}

// loadJWTConfig loads device-token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := envPrefix(mode)

	tokenHours, _ := strconv.Atoi(getEnv("DEVICE_TOKEN_HOURS", "168"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		DeviceTokenHours: tokenHours,
	}
}

// loadPayrollConfig loads the payroll backend endpoints based on mode
func loadPayrollConfig(mode string) PayrollConfig {
	prefix := envPrefix(mode)

	return PayrollConfig{
		BaseURL:      getEnv(prefix+"PAYROLL_API_BASE", "https://api.shomvob.co/api/v2/wagely"),
		OTPBaseURL:   getEnv(prefix+"OTP_API_BASE", "https://api.shomvob.co/api/v2"),
		ServiceToken: getEnv(prefix+"PAYROLL_SERVICE_TOKEN", ""),
	}
}

// loadOTPConfig loads OTP flow config based on mode
func loadOTPConfig(mode string) OTPConfig {
	// Dev mode defaults to the fixed-code flow so local runs need no SMS.
	devDefault := "false"
	if mode == "dev" {
		devDefault = "true"
	}
	devMode, _ := strconv.ParseBool(getEnv("OTP_DEV_MODE", devDefault))

	return OTPConfig{DevMode: devMode}
}

func envPrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://app.wagely.shomvob.co"
	}
	return origins
}
