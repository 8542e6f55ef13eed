package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadWithViper(defaultViper())
	require.NoError(t, err)

	assert.Equal(t, 8721, cfg.Server.Port)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 256, cfg.Engine.CacheSize)
	assert.Equal(t, 16, cfg.Engine.MaxPartialDepth)
	assert.Equal(t, "critics", cfg.Critics.Dir)
	assert.Equal(t, "auto", cfg.Provider.Default)
	assert.Equal(t, "openai/gpt-4o-mini", cfg.OpenRouter.Model)
	assert.False(t, cfg.LocalInference.Enabled)
}

func TestDefaultsPassValidation(t *testing.T) {
	cfg, err := LoadWithViper(defaultViper())
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verdict.toml")
	content := `
[server]
port = 9000

[critics]
dir = "/etc/verdict/critics"
watch = true

[openrouter]
model = "anthropic/claude-sonnet-4"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/etc/verdict/critics", cfg.Critics.Dir)
	assert.True(t, cfg.Critics.Watch)
	assert.Equal(t, "anthropic/claude-sonnet-4", cfg.OpenRouter.Model)
	// Unset fields keep their defaults
	assert.Equal(t, 0.2, cfg.OpenRouter.Temperature)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadWithViper(defaultViper())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"huge port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero cache", func(c *Config) { c.Engine.CacheSize = 0 }, "engine.cache_size"},
		{"bad provider", func(c *Config) { c.Provider.Default = "cloud" }, "provider.default"},
		{"negative temperature", func(c *Config) { c.OpenRouter.Temperature = -1 }, "openrouter.temperature"},
		{
			"local enabled without url",
			func(c *Config) {
				c.LocalInference.Enabled = true
				c.LocalInference.BaseURL = ""
			},
			"local_inference.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("VERDICT_OPENROUTER_API_KEY", "sk-test-123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", cfg.OpenRouter.APIKey)
}
