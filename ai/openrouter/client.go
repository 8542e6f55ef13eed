// Package openrouter implements the OpenRouter.ai chat-completions
// client used for critic evaluation.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/internal/httpclient"
	"github.com/teranos/verdict/internal/retry"
)

const (
	// DefaultModel is the fallback model when none is specified.
	// Should match the default in config/defaults.go for consistency.
	DefaultModel = "openai/gpt-4o-mini"

	defaultBaseURL = "https://openrouter.ai/api/v1"
)

// Config holds OpenRouter client configuration
type Config struct {
	APIKey            string
	Model             string
	Temperature       *float64           // nil = 0.2
	MaxTokens         *int               // nil = 1000
	BaseURL           string             // override for tests
	RequestsPerMinute int                // 0 = 60
	Logger            *zap.SugaredLogger // nil = nop logger
}

// Client is an OpenRouter.ai API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.SaferClient
	config     Config
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

// NewClient creates an OpenRouter client with verdict's defaults
func NewClient(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == nil {
		defaultTemp := 0.2
		config.Temperature = &defaultTemp
	}
	if config.MaxTokens == nil {
		defaultTokens := 1000
		config.MaxTokens = &defaultTokens
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}

	baseURL := defaultBaseURL
	blockPrivateIP := true
	if config.BaseURL != "" {
		baseURL = config.BaseURL
		// Test servers run on loopback
		blockPrivateIP = false
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// SSRF-safer HTTP client: blocks private IPs, localhost, cloud
	// metadata endpoints, dangerous schemes
	saferClient := httpclient.NewWithOptions(120*time.Second, httpclient.Options{
		BlockPrivateIP: &blockPrivateIP,
	})

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: saferClient,
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), 1),
		logger:     logger,
	}
}

// Name implements provider.Client
func (c *Client) Name() string { return "openrouter" }

// completionRequest is the wire format of the chat completions endpoint
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// createCompletion sends one chat completion request
func (c *Client) createCompletion(ctx context.Context, req completionRequest) (*completionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Title", "verdict")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var compResp completionResponse
	if err := json.Unmarshal(respBody, &compResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	return &compResp, nil
}

// Chat sends a chat request with rate limiting and retry
func (c *Client) Chat(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	if c.apiKey == "" {
		return nil, errors.New("OpenRouter API key not configured")
	}

	temperature := *c.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := *c.config.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	model := c.config.Model
	if req.Model != nil {
		model = *req.Model
	}

	messages := []message{}
	if req.SystemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, message{Role: "user", Content: req.UserPrompt})

	wireReq := completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	c.logger.Debugw("OpenRouter chat request",
		"model", model,
		"temperature", temperature,
		"max_tokens", maxTokens,
		"prompt_length", len(req.UserPrompt),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait interrupted")
	}

	var resp *completionResponse
	err := retry.Do(ctx, retry.DefaultPolicy, func() error {
		var reqErr error
		resp, reqErr = c.createCompletion(ctx, wireReq)
		if reqErr != nil {
			c.logger.Warnw("OpenRouter API error",
				"error", reqErr,
				"model", model,
				"url", c.baseURL+"/chat/completions",
			)
		}
		return reqErr
	})
	if err != nil {
		return nil, errors.Wrap(err, "OpenRouter API error")
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response choices from OpenRouter")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	c.logger.Debugw("OpenRouter response",
		"content_length", len(content),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
	)

	return &provider.ChatResponse{
		Content: content,
		Model:   resp.Model,
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
