package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a .env file
// first when present. A missing .env file is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.DatabasePath = getEnv("MYDAY_DB_PATH", cfg.DatabasePath)
	cfg.CouchURL = getEnv("MYDAY_COUCH_URL", cfg.CouchURL)
	cfg.EntriesDB = getEnv("MYDAY_ENTRIES_DB", cfg.EntriesDB)
	cfg.UsersDB = getEnv("MYDAY_USERS_DB", cfg.UsersDB)
	cfg.IdentityURL = getEnv("MYDAY_IDENTITY_URL", cfg.IdentityURL)
	cfg.LogLevel = getEnv("MYDAY_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("MYDAY_LOG_FILE", cfg.LogFile)

	if v := os.Getenv("MYDAY_SYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SyncTimeout = d
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
