// Package config loads verdict configuration with Viper.
//
// Sources, in precedence order: environment variables (VERDICT_ prefix),
// an explicit config file, verdict.toml found by walking up from the
// working directory, then built-in defaults.
package config

import (
	"time"
)

// Config is the root configuration for verdict
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Engine         EngineConfig         `mapstructure:"engine"`
	Critics        CriticsConfig        `mapstructure:"critics"`
	Provider       ProviderConfig       `mapstructure:"provider"`
	OpenRouter     OpenRouterConfig     `mapstructure:"openrouter"`
	LocalInference LocalInferenceConfig `mapstructure:"local_inference"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Port         int   `mapstructure:"port"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// EngineConfig configures the template engine
type EngineConfig struct {
	CacheSize       int `mapstructure:"cache_size"`
	MaxPartialDepth int `mapstructure:"max_partial_depth"`
}

// CriticsConfig configures critic definition loading
type CriticsConfig struct {
	// Dir holds one TOML file per critic, plus an optional _partials
	// subdirectory of shared template snippets
	Dir string `mapstructure:"dir"`
	// Watch reloads the registry when files under Dir change
	Watch bool `mapstructure:"watch"`
}

// ProviderConfig selects the LLM provider
type ProviderConfig struct {
	// Default is "openrouter", "local", or "auto" (local when enabled,
	// otherwise openrouter)
	Default string `mapstructure:"default"`
}

// OpenRouterConfig configures the OpenRouter.ai client
type OpenRouterConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
}

// LocalInferenceConfig configures a local OpenAI-compatible endpoint
// (Ollama, LocalAI)
type LocalInferenceConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the local inference timeout as a duration
func (c LocalInferenceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
