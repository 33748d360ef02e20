package service

import (
	"context"

	"outreachpilot/internal/model"
)

// mockMailboxClient implements MailboxClient for tests
type mockMailboxClient struct {
	ProfileFunc     func(ctx context.Context) (string, error)
	SendFunc        func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error)
	ThreadFunc      func(ctx context.Context, threadID string) ([]*model.ThreadMessage, error)
	MessageRefsFunc func(ctx context.Context, messageID string) (*MessageRefs, error)
}

func (m *mockMailboxClient) Profile(ctx context.Context) (string, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return "sender@example.com", nil
}

func (m *mockMailboxClient) Send(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return &SendResult{MessageID: "msg-1", ThreadID: "thread-1"}, nil
}

func (m *mockMailboxClient) Thread(ctx context.Context, threadID string) ([]*model.ThreadMessage, error) {
	if m.ThreadFunc != nil {
		return m.ThreadFunc(ctx, threadID)
	}
	return []*model.ThreadMessage{}, nil
}

func (m *mockMailboxClient) MessageRefs(ctx context.Context, messageID string) (*MessageRefs, error) {
	if m.MessageRefsFunc != nil {
		return m.MessageRefsFunc(ctx, messageID)
	}
	return &MessageRefs{MessageIDHeader: "<msg-1@mail.example.com>", ThreadID: "thread-1"}, nil
}

// mockExchanger implements TokenExchanger for tests
type mockExchanger struct {
	ExchangeFunc func(ctx context.Context, authCode string) (*ExchangedToken, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (*ExchangedToken, error)
}

func (m *mockExchanger) Exchange(ctx context.Context, authCode string) (*ExchangedToken, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, authCode)
	}
	return nil, nil
}

func (m *mockExchanger) Refresh(ctx context.Context, refreshToken string) (*ExchangedToken, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, nil
}
