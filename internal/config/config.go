// Package config provides configuration management for the Grand Line
// sensor backend. It loads settings from environment variables with the
// GRANDLINE_ prefix and provides sensible defaults for all options.
//
// The device name is persisted to the settings table in the database.
// LoadConfigFromDB reads from the database first and falls back to the
// environment variable. SaveConfig writes it back. The settings queries use
// SQLite placeholder syntax; callers only pass a DB handle when running on
// the sqlite engine.
package config

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration settings for the application.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Security  SecurityConfig
	Voice     VoiceConfig
	Features  FeaturesConfig
	Reference ReferenceConfig
	Device    DeviceConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 8181)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: sqlite or postgres (default: sqlite)
	DataPath      string // Path to data directory for SQLite (default: ./data)
	PostgresURL   string // PostgreSQL connection string, used when engine is postgres
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token
}

// VoiceConfig contains voice-skill settings.
type VoiceConfig struct {
	InvocationName     string // Skill invocation name used in help text (default: grand line tracker)
	StorageTimeoutSecs int    // Per-call storage timeout in seconds (default: 3)
}

// FeaturesConfig contains feature flags.
type FeaturesConfig struct {
	EnableREST      bool // Enable REST API (default: true)
	EnableVoice     bool // Enable voice webhook (default: true)
	EnableWebSocket bool // Enable live reading WebSocket feed (default: true)
}

// ReferenceConfig points at an optional YAML seed file of islands and
// characters applied on startup.
type ReferenceConfig struct {
	SeedPath string // Path to reference seed file; empty means embedded defaults only
}

// DeviceConfig contains device-specific settings that persist across
// restarts. These settings are stored in the settings table in the database.
type DeviceConfig struct {
	// DeviceName is the display name for the sensor device.
	// Env var: GRANDLINE_DEVICE_NAME
	// Database key: device_name
	DeviceName string
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the GRANDLINE_ prefix. Device
// settings are loaded from environment variables only; use LoadConfigFromDB
// to also read persisted values from the database.
func LoadConfig() (*Config, error) {
	cfg := buildBaseConfig()

	if cfg.Storage.StorageEngine != "sqlite" && cfg.Storage.StorageEngine != "postgres" {
		return nil, fmt.Errorf("config: unknown storage engine %q (want sqlite or postgres)", cfg.Storage.StorageEngine)
	}
	if cfg.Storage.StorageEngine == "postgres" && cfg.Storage.PostgresURL == "" {
		return nil, errors.New("config: GRANDLINE_POSTGRES_URL is required when the storage engine is postgres")
	}

	return cfg, nil
}

// LoadConfigFromDB loads configuration from both environment variables and
// the database. The database value takes precedence over the environment
// variable for device settings.
//
// Returns an error if db is nil.
func LoadConfigFromDB(db *sql.DB) (*Config, error) {
	if db == nil {
		return nil, errors.New("config: database connection is required")
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	deviceName, err := getSetting(db, "device_name")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("config: failed to load device_name from database: %w", err)
	}

	if deviceName != "" {
		// DB value overrides env var
		cfg.Device.DeviceName = deviceName
	}

	return cfg, nil
}

// SaveConfig persists device settings to the settings table using upsert
// semantics, so they survive application restarts.
//
// Returns an error if db is nil.
func (c *Config) SaveConfig(db *sql.DB) error {
	if db == nil {
		return errors.New("config: database connection is required")
	}

	if err := setSetting(db, "device_name", c.Device.DeviceName); err != nil {
		return fmt.Errorf("config: failed to save device_name: %w", err)
	}

	return nil
}

// getSetting retrieves a single setting value by key from the settings table.
// Returns an empty string and sql.ErrNoRows if the key does not exist.
func getSetting(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// setSetting writes a key-value pair to the settings table using upsert semantics.
func setSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// buildBaseConfig constructs a Config with values from environment
// variables and defaults.
func buildBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("GRANDLINE_PORT", 8181),
			Host: getEnv("GRANDLINE_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("GRANDLINE_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("GRANDLINE_DATA_PATH", "./data"),
			PostgresURL:   getEnv("GRANDLINE_POSTGRES_URL", ""),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("GRANDLINE_SECURITY_MODE", "development"),
			APIToken:     getEnv("GRANDLINE_API_TOKEN", ""),
		},
		Voice: VoiceConfig{
			InvocationName:     getEnv("GRANDLINE_INVOCATION_NAME", "grand line tracker"),
			StorageTimeoutSecs: getEnvInt("GRANDLINE_STORAGE_TIMEOUT_SECS", 3),
		},
		Features: FeaturesConfig{
			EnableREST:      getEnvBool("GRANDLINE_ENABLE_REST", true),
			EnableVoice:     getEnvBool("GRANDLINE_ENABLE_VOICE", true),
			EnableWebSocket: getEnvBool("GRANDLINE_ENABLE_WEBSOCKET", true),
		},
		Reference: ReferenceConfig{
			SeedPath: getEnv("GRANDLINE_REFERENCE_SEED", ""),
		},
		Device: DeviceConfig{
			DeviceName: getEnv("GRANDLINE_DEVICE_NAME", ""),
		},
	}
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. It recognizes "true", "1", "yes" as true and "false", "0", "no" as
// false (case-insensitive).
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
