package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	EmailSender string
	Password    string // SMTP Password

	GatewayApiURL    string // Payment gateway sandbox base URL
	GatewayApiKey    string
	GatewaySecretKey string

	DefaultCommissionRate float64 // Fallback referral commission rate

	EnrollmentCronSpec  string // Cron spec for the enrollment reconciler
	EnrollmentAttempts  uint   // Retry attempts per reconciler sweep
	EnrollmentBatchSize int    // Max tasks picked per sweep
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "coursedesk"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		GatewayApiURL:    getEnv("GATEWAY_API_URL", "https://api.sandbox.credpay.io/v1/"),
		GatewayApiKey:    getEnv("GATEWAY_API_KEY", "defaultSecret"),
		GatewaySecretKey: getEnv("GATEWAY_SECRET_KEY", "defaultSecret"),

		DefaultCommissionRate: getEnvFloat("DEFAULT_COMMISSION_RATE", 0.60),

		EnrollmentCronSpec:  getEnv("ENROLLMENT_CRON_SPEC", "* * * * *"),
		EnrollmentAttempts:  uint(getEnvInt("ENROLLMENT_ATTEMPTS", 3)),
		EnrollmentBatchSize: getEnvInt("ENROLLMENT_BATCH_SIZE", 50),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GatewayApiKey == "defaultSecret" {
		log.Println("Warning: Payment gateway credentials not set. Transaction lookups will be skipped.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvFloat retrieves an environment variable as a float or returns the default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
