package config

import "github.com/teranos/verdict/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.Newf("server.max_body_bytes must be > 0, got %d", c.Server.MaxBodyBytes)
	}

	if c.Engine.CacheSize <= 0 {
		return errors.Newf("engine.cache_size must be > 0, got %d", c.Engine.CacheSize)
	}
	if c.Engine.MaxPartialDepth <= 0 {
		return errors.Newf("engine.max_partial_depth must be > 0, got %d", c.Engine.MaxPartialDepth)
	}

	switch c.Provider.Default {
	case "auto", "openrouter", "local":
	default:
		return errors.Newf("provider.default must be auto, openrouter or local, got %q", c.Provider.Default)
	}

	if c.OpenRouter.Temperature < 0 || c.OpenRouter.Temperature > 2 {
		return errors.Newf("openrouter.temperature must be in 0..2, got %f", c.OpenRouter.Temperature)
	}
	if c.OpenRouter.MaxTokens <= 0 {
		return errors.Newf("openrouter.max_tokens must be > 0, got %d", c.OpenRouter.MaxTokens)
	}
	if c.OpenRouter.RequestsPerMinute <= 0 {
		return errors.Newf("openrouter.requests_per_minute must be > 0, got %d", c.OpenRouter.RequestsPerMinute)
	}

	// Validate local inference configuration only when enabled
	if c.LocalInference.Enabled {
		if c.LocalInference.BaseURL == "" {
			return errors.New("local_inference.base_url cannot be empty when enabled")
		}
		if c.LocalInference.Model == "" {
			return errors.New("local_inference.model cannot be empty when enabled")
		}
		if c.LocalInference.TimeoutSeconds <= 0 {
			return errors.Newf("local_inference.timeout_seconds must be > 0, got %d", c.LocalInference.TimeoutSeconds)
		}
	}

	return nil
}
