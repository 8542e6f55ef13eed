// Package local implements a client for local OpenAI-compatible
// inference servers (Ollama, LocalAI).
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/errors"
)

// Client talks to a local inference endpoint over the OpenAI chat API
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a client for local inference
func NewClient(cfg config.LocalInferenceConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger,
	}
}

// Name implements provider.Client
func (c *Client) Name() string { return "local" }

// Wire types match the OpenAI API; Ollama is compatible
type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat sends a chat request to the local endpoint
func (c *Client) Chat(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	model := c.model
	if req.Model != nil {
		model = *req.Model
	}

	messages := []message{}
	if req.SystemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, message{Role: "user", Content: req.UserPrompt})

	body, err := json.Marshal(completionRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	url := c.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "local inference request to %s failed", url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("local inference failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var compResp completionResponse
	if err := json.Unmarshal(respBody, &compResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	if len(compResp.Choices) == 0 {
		return nil, errors.New("no response choices from local inference")
	}

	content := strings.TrimSpace(compResp.Choices[0].Message.Content)

	c.logger.Debugw("local inference response",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"content_length", len(content),
	)

	return &provider.ChatResponse{
		Content: content,
		Model:   compResp.Model,
		Usage: provider.Usage{
			PromptTokens:     compResp.Usage.PromptTokens,
			CompletionTokens: compResp.Usage.CompletionTokens,
			TotalTokens:      compResp.Usage.TotalTokens,
		},
	}, nil
}
