package ai

import "context"

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	GenerateFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ProviderName string
}

func NewMockClient() *MockClient {
	return &MockClient{ProviderName: "mock"}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, userPrompt)
	}

	// Default mock behavior: a well-formed response
	return `{"subject": "Hello", "body": "Mock generated body."}`, nil
}

func (m *MockClient) Provider() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}
