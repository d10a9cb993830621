package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatavatars/internal/app/presence"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "DEBUG", "ALLOWED_ORIGINS", "CONTROL_JWT_SECRET",
		"TWITCH_CHANNEL", "TWITCH_BOT_USERNAME", "TWITCH_OAUTH_TOKEN",
		"AUTO_START", "AUTO_START_DIRECTION",
	} {
		t.Setenv(key, kv[key])
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"TWITCH_CHANNEL": "#StreamerName"})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "streamername", cfg.TwitchChannel)
	assert.True(t, cfg.Anonymous())
	assert.True(t, cfg.AutoStart)
	assert.Equal(t, presence.Down, cfg.AutoStartDirection)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"ENVIRONMENT":          "production",
		"PORT":                 "9000",
		"DEBUG":                "true",
		"ALLOWED_ORIGINS":      " https://a.example , ,https://b.example",
		"CONTROL_JWT_SECRET":   "s3cret",
		"TWITCH_CHANNEL":       "streamer",
		"TWITCH_BOT_USERNAME":  "avatarbot",
		"TWITCH_OAUTH_TOKEN":   "abc123",
		"AUTO_START":           "false",
		"AUTO_START_DIRECTION": "sideways",
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "oauth:abc123", cfg.TwitchOAuthToken)
	assert.False(t, cfg.Anonymous())
	assert.False(t, cfg.AutoStart)
	assert.Equal(t, presence.Left, cfg.AutoStartDirection, "unknown directions fall back to left")
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing channel", map[string]string{}, "TWITCH_CHANNEL"},
		{"bad port", map[string]string{"TWITCH_CHANNEL": "c", "PORT": "http"}, "PORT"},
		{"privileged port", map[string]string{"TWITCH_CHANNEL": "c", "PORT": "80"}, "outside"},
		{"bad bool", map[string]string{"TWITCH_CHANNEL": "c", "AUTO_START": "maybe"}, "AUTO_START"},
		{"half credentials", map[string]string{"TWITCH_CHANNEL": "c", "TWITCH_BOT_USERNAME": "bot"}, "set together"},
		{"secret outside development", map[string]string{"TWITCH_CHANNEL": "c", "ENVIRONMENT": "production"}, "CONTROL_JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
