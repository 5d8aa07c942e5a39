package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	TablePrefix string
	JWKSURL     string // empty = static dev auth
	DevOwnerID  string // owner assumed by the static dev verifier
	CORSOrigins string
	ContentDir  string // root of the filesystem content store
	LogDir      string
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: tablePrefix,
		JWKSURL:     getEnv("JWKS_URL", ""),
		DevOwnerID:  getEnv("DEV_OWNER_ID", "dev-owner"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		ContentDir:  getEnv("CONTENT_DIR", "data/content"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
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
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
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
