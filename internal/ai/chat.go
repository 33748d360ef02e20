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

// chatCompletionClient speaks the OpenAI-compatible chat completions shape,
// which DeepSeek also serves.
type chatCompletionClient struct {
	provider   string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

func newChatCompletionClient(provider, apiKey, baseURL, model string, log *logger.Logger) *chatCompletionClient {
	return &chatCompletionClient{
		provider:   provider,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     log,
	}
}

type chatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

func (c *chatCompletionClient) Provider() string {
	return c.provider
}

func (c *chatCompletionClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: %s API key not configured", ErrProviderUnavailable, c.provider)
	}

	request := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: 1024,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %s returned status %d: %s", ErrProvider, c.provider, resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrProvider, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned from %s", ErrProvider, c.provider)
	}

	return chatResp.Choices[0].Message.Content, nil
}
