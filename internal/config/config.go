package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	Storage     string // "postgres" or "memory"
	TablePrefix string
	CORSOrigins string
	AutoMigrate bool
	// Auth: empty JWKS URL runs the server in anonymous mode
	AuthJWKSURL           string
	AuthRequiredForWrites bool
	// Editor selects the content formatting strategy ("text", "markdown", "html")
	Editor string
	// Logging
	LogDir      string
	LogMaxFiles int
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		Environment:           env,
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Storage:               getEnv("STORAGE", "postgres"),
		TablePrefix:           getTablePrefix(env),
		CORSOrigins:           getEnv("CORS_ORIGINS", "http://localhost:3000"),
		AutoMigrate:           getEnv("AUTO_MIGRATE", getDefaultDebug(env)) == "true",
		AuthJWKSURL:           getEnv("AUTH_JWKS_URL", ""),
		AuthRequiredForWrites: getEnv("AUTH_REQUIRED_FOR_WRITES", "true") == "true",
		Editor:                getEnv("EDITOR", "text"),
		LogDir:                getEnv("LOG_DIR", ""),
		LogMaxFiles:           getEnvInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

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
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
