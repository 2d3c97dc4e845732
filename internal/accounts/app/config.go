package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Development fallbacks. Fine for a local mongod and a throwaway token
// secret; a production deployment must override both.
const (
	DefaultStoreDSN  = "mongodb://127.0.0.1:27017/userdb"
	DefaultJWTSecret = "default_secret_key"
)

type Config struct {
	StoreDSN  string // Connection string: mongodb:// selects the document store, anything else a local sqlite file
	JWTSecret string // Symmetric signing secret for session tokens
	Issuer    string // Issuer claim for session tokens

	CORSOrigins         []string      // Allowed CORS origins (default: *)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Pick up a local .env when present; a missing file is fine.
	_ = godotenv.Load()

	cfg := Config{
		StoreDSN:            getEnvOrDefault("STORE_DSN", DefaultStoreDSN),
		JWTSecret:           getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "userdock"),
		CORSOrigins:         splitOrigins(getEnvOrDefault("CORS_ORIGIN", "*")),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// UsesDefaultSecret reports whether the process is running on the
// development signing secret.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
