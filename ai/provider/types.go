// Package provider selects and constructs LLM clients.
package provider

import (
	"context"
)

// Type identifies an LLM provider
type Type string

const (
	// TypeLocal uses local inference (Ollama, LocalAI, or any
	// OpenAI-compatible local server)
	TypeLocal Type = "local"
	// TypeOpenRouter uses the OpenRouter.ai API
	TypeOpenRouter Type = "openrouter"
	// TypeAuto selects based on configuration
	TypeAuto Type = "auto"
)

// ChatRequest is a provider-independent chat request
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil = provider default
	MaxTokens    *int     // nil = provider default
	Model        *string  // nil = provider default
}

// Usage reports token consumption for one request
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is a provider-independent chat response
type ChatResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Client is the interface all LLM providers implement
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name identifies the provider for logging and result attribution
	Name() string
}
