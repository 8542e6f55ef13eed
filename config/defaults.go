package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8721)
	v.SetDefault("server.max_body_bytes", 1<<20) // 1 MiB request cap

	// Template engine defaults
	v.SetDefault("engine.cache_size", 256)
	v.SetDefault("engine.max_partial_depth", 16)

	// Critic defaults
	v.SetDefault("critics.dir", "critics")
	v.SetDefault("critics.watch", false)

	// Provider defaults
	v.SetDefault("provider.default", "auto")

	// OpenRouter defaults
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini") // Cost-effective default
	v.SetDefault("openrouter.temperature", 0.2)            // Deterministic judging
	v.SetDefault("openrouter.max_tokens", 1000)
	v.SetDefault("openrouter.requests_per_minute", 60)

	// Local inference (Ollama) defaults
	v.SetDefault("local_inference.enabled", false)
	v.SetDefault("local_inference.base_url", "http://localhost:11434")
	v.SetDefault("local_inference.model", "llama3.2:3b")
	v.SetDefault("local_inference.timeout_seconds", 600)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to
// environment variables so keys never need to live in config files
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("openrouter.api_key", "VERDICT_OPENROUTER_API_KEY")
	v.BindEnv("local_inference.base_url", "VERDICT_LOCAL_INFERENCE_BASE_URL")
	v.BindEnv("local_inference.model", "VERDICT_LOCAL_INFERENCE_MODEL")
}
