package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		YouTube: YouTubeConfig{
			APIKey:     "test-api-key",
			MaxResults: 10,
		},
		Recommend: RecommendConfig{
			QueryCount:   2,
			TimeoutSec:   15,
			HistoryLimit: 10,
			Providers: []ProviderConfig{
				{
					Type:        "gemini",
					DisplayName: "Gemini DJ",
					Settings:    map[string]any{"api_key": "k"},
				},
			},
		},
		Reconnect: ReconnectConfig{MaxAttempts: 5, BaseDelayMs: 1000, MaxDelayMs: 30000},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing youtube api key",
			mutate:  func(c *Config) { c.YouTube.APIKey = "" },
			wantErr: true,
			errMsg:  "APIKey",
		},
		{
			name:    "no recommend providers",
			mutate:  func(c *Config) { c.Recommend.Providers = nil },
			wantErr: true,
			errMsg:  "Providers",
		},
		{
			name: "provider missing type",
			mutate: func(c *Config) {
				c.Recommend.Providers[0].Type = ""
			},
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name: "base delay above max delay",
			mutate: func(c *Config) {
				c.Reconnect.BaseDelayMs = 60000
			},
			wantErr: true,
			errMsg:  "base_delay_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
youtube:
  api_key: test-key
recommend:
  providers:
    - type: static
      display_name: Fallback
      settings:
        queries: ["chill music playlist"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.YouTube.MaxResults)
	assert.Equal(t, 2, cfg.Recommend.QueryCount)
	assert.Equal(t, 15, cfg.Recommend.TimeoutSec)
	assert.Equal(t, 10, cfg.Recommend.HistoryLimit)
	assert.Equal(t, 5, cfg.Reconnect.MaxAttempts)
	assert.Equal(t, 1000, cfg.Reconnect.BaseDelayMs)
	assert.Equal(t, 30000, cfg.Reconnect.MaxDelayMs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-yt-key")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	path := writeConfig(t, `
youtube:
  api_key: file-key
recommend:
  providers:
    - type: gemini
      display_name: Gemini DJ
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-yt-key", cfg.YouTube.APIKey)
	assert.Equal(t, "env-gemini-key", cfg.Recommend.Providers[0].Settings["api_key"])
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "{not yaml"))
	assert.Error(t, err)

	// Valid YAML, missing required fields.
	_, err = Load(writeConfig(t, "server:\n  addr: ':9090'\n"))
	assert.Error(t, err)
}

func TestIsFilterEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Filters = map[string]FilterConfig{
		"duplicate_track": {Enabled: true},
		"queue_limit":     {Enabled: false, Settings: map[string]any{"max_length": 20}},
	}

	assert.True(t, cfg.IsFilterEnabled("duplicate_track"))
	assert.False(t, cfg.IsFilterEnabled("queue_limit"))
	assert.False(t, cfg.IsFilterEnabled("unknown"))
	assert.Equal(t, map[string]any{"max_length": 20}, cfg.FilterSettings("queue_limit"))
	assert.Nil(t, cfg.FilterSettings("unknown"))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
