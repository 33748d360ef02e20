package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"outreachpilot/internal/logger"
)

type anthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

func newAnthropicClient(apiKey, model string, log *logger.Logger) *anthropicClient {
	return &anthropicClient{
		apiKey:     apiKey,
		baseURL:    "https://api.anthropic.com/v1",
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     log,
	}
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type anthropicResponse struct {
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *anthropicClient) Provider() string {
	return ProviderAnthropic
}

func (c *anthropicClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: anthropic API key not configured", ErrProviderUnavailable)
	}

	request := anthropicRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: userPrompt},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: anthropic returned status %d: %s", ErrProvider, resp.StatusCode, string(body))
	}

	var anthropicResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&anthropicResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrProvider, err)
	}

	for _, block := range anthropicResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: no text content returned from anthropic", ErrProvider)
}
