/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the service from operating system environment variables: the running environment,
port, CORS allowed origins, the Twitch channel and bot credentials, auto-start behavior, and the
secret used to verify control API operator tokens.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"chatavatars/internal/app/presence"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	Debug       bool

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// Twitch Chat Settings
	TwitchChannel     string
	TwitchBotUsername string
	TwitchOAuthToken  string

	// Auto-start Settings
	AutoStart          bool
	AutoStartDirection presence.Direction
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Anonymous reports whether the chat feed joins without credentials (read-only).
func (c *AppConfig) Anonymous() bool {
	return c.TwitchOAuthToken == ""
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// Debug
	if cfg.Debug, err = boolEnv("DEBUG", false); err != nil {
		return nil, err
	}

	// --- Security Settings ---
	// AllowedOrigins
	cfg.AllowedOrigins = []string{}
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// JWTSecret
	cfg.JWTSecret = os.Getenv("CONTROL_JWT_SECRET")
	if cfg.JWTSecret == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("CONTROL_JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
	}

	// --- Twitch Chat Settings ---
	cfg.TwitchChannel = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(os.Getenv("TWITCH_CHANNEL")), "#"))
	if cfg.TwitchChannel == "" {
		return nil, fmt.Errorf("TWITCH_CHANNEL environment variable is required")
	}

	cfg.TwitchBotUsername = strings.TrimSpace(os.Getenv("TWITCH_BOT_USERNAME"))
	cfg.TwitchOAuthToken = strings.TrimSpace(os.Getenv("TWITCH_OAUTH_TOKEN"))
	if (cfg.TwitchBotUsername == "") != (cfg.TwitchOAuthToken == "") {
		return nil, fmt.Errorf("TWITCH_BOT_USERNAME and TWITCH_OAUTH_TOKEN must be set together")
	}
	if cfg.TwitchOAuthToken != "" && !strings.HasPrefix(cfg.TwitchOAuthToken, "oauth:") {
		cfg.TwitchOAuthToken = "oauth:" + cfg.TwitchOAuthToken
	}

	// --- Auto-start Settings ---
	if cfg.AutoStart, err = boolEnv("AUTO_START", true); err != nil {
		return nil, err
	}

	cfg.AutoStartDirection = presence.Down
	if dir := os.Getenv("AUTO_START_DIRECTION"); dir != "" {
		cfg.AutoStartDirection = presence.NormalizeDirection(presence.Direction(strings.ToLower(dir)))
	}

	return cfg, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}
