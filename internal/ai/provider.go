package ai

import (
	"context"
	"fmt"
	"time"

	"outreachpilot/internal/config"
	"outreachpilot/internal/logger"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderDeepSeek  = "deepseek"
)

const requestTimeout = 30 * time.Second

// Client generates raw text for a composed prompt against one AI backend.
// Stateless per call; no retries at this layer.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Provider() string
}

// Factory builds a Client for the named provider. Injected into the
// composer so tests can substitute a mock.
type Factory func(provider string) (Client, error)

// NewClient looks the provider up in a fixed table; each adapter owns only
// its model name and request shape.
func NewClient(provider string, cfg *config.Config, log *logger.Logger) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return newChatCompletionClient(ProviderOpenAI, cfg.OpenAIKey, "https://api.openai.com/v1", "gpt-4o", log), nil
	case ProviderDeepSeek:
		return newChatCompletionClient(ProviderDeepSeek, cfg.DeepSeekKey, "https://api.deepseek.com", "deepseek-chat", log), nil
	case ProviderGemini:
		return newGeminiClient(cfg.GeminiKey, "gemini-2.0-flash-lite", log), nil
	case ProviderAnthropic:
		return newAnthropicClient(cfg.AnthropicKey, "claude-sonnet-4-20250514", log), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderUnavailable, provider)
	}
}
