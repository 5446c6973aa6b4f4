// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion  string
	MetricsPort string

	// Database
	DBName     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string

	// Fare source
	FareAPIURL   string
	RequestDelay time.Duration

	// Continuous mode
	WatchFromAirport string
	WatchToAirport   string
	WatchOutboundDay int
	WatchReturnDay   int
	WatchHorizonDays int
	WatchInterval    time.Duration
	WatchBackoff     time.Duration
	BatchDir         string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		MetricsPort: getEnv("METRICS_PORT", "8080"),

		DBName:     getEnv("DB_NAME", "farewatch"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		FareAPIURL:   getEnv("FARE_API_URL", "http://localhost:9090"),
		RequestDelay: time.Duration(getEnvAsInt("REQUEST_DELAY", 5)) * time.Second,

		WatchFromAirport: getEnv("WATCH_FROM_AIRPORT", "SEA"),
		WatchToAirport:   getEnv("WATCH_TO_AIRPORT", "MKE"),
		WatchOutboundDay: getEnvAsInt("WATCH_OUTBOUND_DAY", 3),
		WatchReturnDay:   getEnvAsInt("WATCH_RETURN_DAY", 6),
		WatchHorizonDays: getEnvAsInt("WATCH_HORIZON_DAYS", 180),
		WatchInterval:    time.Duration(getEnvAsInt("WATCH_INTERVAL", 86400)) * time.Second,
		WatchBackoff:     time.Duration(getEnvAsInt("WATCH_BACKOFF", 3600)) * time.Second,
		BatchDir:         getEnv("BATCH_DIR", "."),
	}

	return config, nil
}

// PostgresDSN builds the connection string for the observation store
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
