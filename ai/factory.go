// Package ai wires LLM provider clients from configuration.
package ai

import (
	"go.uber.org/zap"

	"github.com/teranos/verdict/ai/local"
	"github.com/teranos/verdict/ai/openrouter"
	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/errors"
)

// NewClient creates an LLM client based on configuration.
//
// provider.default selects the client; "auto" prefers local inference
// when enabled (free, private), falling back to OpenRouter when an API
// key is configured.
func NewClient(cfg *config.Config, logger *zap.SugaredLogger) (provider.Client, error) {
	switch provider.Type(cfg.Provider.Default) {
	case provider.TypeLocal:
		if !cfg.LocalInference.Enabled {
			return nil, errors.New("provider.default is local but local_inference.enabled is false")
		}
		return local.NewClient(cfg.LocalInference, logger), nil

	case provider.TypeOpenRouter:
		return newOpenRouter(cfg, logger)

	case provider.TypeAuto:
		if cfg.LocalInference.Enabled {
			logger.Debugw("auto provider selection", "provider", "local")
			return local.NewClient(cfg.LocalInference, logger), nil
		}
		logger.Debugw("auto provider selection", "provider", "openrouter")
		return newOpenRouter(cfg, logger)

	default:
		return nil, errors.Newf("unknown provider %q", cfg.Provider.Default)
	}
}

func newOpenRouter(cfg *config.Config, logger *zap.SugaredLogger) (provider.Client, error) {
	if cfg.OpenRouter.APIKey == "" {
		return nil, errors.WithHint(
			errors.New("OpenRouter API key not configured"),
			"set VERDICT_OPENROUTER_API_KEY or enable local_inference",
		)
	}

	temp := cfg.OpenRouter.Temperature
	tokens := cfg.OpenRouter.MaxTokens
	return openrouter.NewClient(openrouter.Config{
		APIKey:            cfg.OpenRouter.APIKey,
		Model:             cfg.OpenRouter.Model,
		Temperature:       &temp,
		MaxTokens:         &tokens,
		RequestsPerMinute: cfg.OpenRouter.RequestsPerMinute,
		Logger:            logger,
	}), nil
}
