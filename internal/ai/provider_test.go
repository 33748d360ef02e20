package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/config"
	"outreachpilot/internal/logger"
)

func TestNewClientKnownProviders(t *testing.T) {
	cfg := &config.Config{
		OpenAIKey:    "sk-test",
		AnthropicKey: "sk-ant-test",
		GeminiKey:    "g-test",
		DeepSeekKey:  "ds-test",
	}
	appLogger := logger.New()

	for _, provider := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderDeepSeek} {
		client, err := NewClient(provider, cfg, appLogger)
		assert.NoError(t, err)
		assert.Equal(t, provider, client.Provider())
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	_, err := NewClient("copilot", cfg, logger.New())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestClientWithoutKeyIsUnavailable(t *testing.T) {
	cfg := &config.Config{} // no keys configured
	appLogger := logger.New()

	client, err := NewClient(ProviderOpenAI, cfg, appLogger)
	assert.NoError(t, err)

	_, err = client.Generate(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestMockClientDefaultOutputParses(t *testing.T) {
	mock := &MockClient{ProviderName: ProviderOpenAI}

	raw, err := mock.Generate(context.Background(), "system", "user")
	assert.NoError(t, err)

	content, err := ParseDraft(raw)
	assert.NoError(t, err)
	assert.NotEmpty(t, content.Subject)
	assert.NotEmpty(t, content.Body)
}
