package config

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session
	SessionSecret    string
	SessionExpiry    time.Duration
	CookieSecure     bool
	CookieSameSite   http.SameSite
	SessionCookieTTL int

	// Pagination
	PageSize int
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spendtrack"),
		DBPassword: getEnv("DB_PASSWORD", "spendtrack"),
		DBName:     getEnv("DB_NAME", "spendtrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Session
		SessionSecret:  getEnv("SECRET_KEY", "change-this-secret-key-in-production"),
		CookieSecure:   getEnvBool("SESSION_COOKIE_SECURE", false),
		CookieSameSite: parseSameSite(getEnv("SESSION_COOKIE_SAMESITE", "Lax")),

		// Pagination
		PageSize: getEnvInt("ITEMS_PER_PAGE", 20),
	}

	// Parse session expiry duration
	expStr := getEnv("SESSION_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid SESSION_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.SessionExpiry = expDur
	config.SessionCookieTTL = int(expDur.Seconds())

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func parseSameSite(value string) http.SameSite {
	switch value {
	case "Strict", "strict":
		return http.SameSiteStrictMode
	case "None", "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
