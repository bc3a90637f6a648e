package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// StorageConfig locates the database and its seed data.
type StorageConfig struct {
	DBPath        string
	TemplatesFile string // Optional seed set replacing the built-in templates
}

// AppConfig holds the process configuration read from the environment.
type AppConfig struct {
	StorageConfig

	Token           string
	GuildID         string // Optional, registers commands in one guild instead of globally
	KeepaliveAddr   string // Empty disables the keep-alive server
	RefreshInterval time.Duration
}

// LoadStorageConfig reads the storage settings, which need no secrets.
func LoadStorageConfig() StorageConfig {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return StorageConfig{
		DBPath:        getEnvWithDefault("DB_PATH", "rollcall.db"),
		TemplatesFile: os.Getenv("TEMPLATES_FILE"),
	}
}

// LoadConfig reads the configuration, loading a .env file first if present.
func LoadConfig() (*AppConfig, error) {
	storage := LoadStorageConfig()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		token = os.Getenv("TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set")
	}

	refreshInterval, err := time.ParseDuration(getEnvWithDefault("REFRESH_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval <= 0 {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be positive, got %v", refreshInterval)
	}

	keepaliveAddr, ok := os.LookupEnv("KEEPALIVE_ADDR")
	if !ok {
		keepaliveAddr = ":8080"
	}

	return &AppConfig{
		StorageConfig:   storage,
		Token:           token,
		GuildID:         os.Getenv("GUILD_ID"),
		KeepaliveAddr:   keepaliveAddr,
		RefreshInterval: refreshInterval,
	}, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
