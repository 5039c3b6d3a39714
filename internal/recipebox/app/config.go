package app

import (
	"os"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/service"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Storage       string // Optional: storage driver (sqlite, memory) (default: sqlite)
	DatabaseFile  string // Optional: path to SQLite database file (default: ./recipebox.db)
	AvatarBaseURL string // Optional: placeholder avatar service for local accounts
	Env           string // Environment (dev, staging, prod) (default: dev)
	LogLevel      string // Log level (debug, info, warn, error) (default: warn)
	LogFormat     string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		Storage:       getEnvOrDefault("RECIPEBOX_STORAGE", StorageSQLite),
		DatabaseFile:  getEnvOrDefault("RECIPEBOX_DATABASE_FILE", "recipebox.db"),
		AvatarBaseURL: getEnvOrDefault("RECIPEBOX_AVATAR_BASE_URL", service.DefaultAvatarBaseURL),
		Env:           getEnvOrDefault("ENV", "dev"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "warn"), // keep the terminal quiet
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
