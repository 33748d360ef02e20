package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository/memory"
)

type threadFixture struct {
	client *mockMailboxClient
	svc    ThreadService

	user  *model.User
	draft *model.Draft
}

func newThreadFixture(t *testing.T) *threadFixture {
	t.Helper()

	f := &threadFixture{client: &mockMailboxClient{}}

	draftRepo := memory.NewInMemoryDraftRepository()
	connRepo := memory.NewInMemoryConnectionRepository()
	v := newTestVault(t)
	exchanger := &mockExchanger{
		ExchangeFunc: func(ctx context.Context, authCode string) (*ExchangedToken, error) {
			return &ExchangedToken{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				ExpiresAt:    time.Now().Add(time.Hour),
			}, nil
		},
	}
	factory := func(accessToken string) (MailboxClient, error) {
		return f.client, nil
	}
	appLogger := logger.New()
	mailbox := NewMailboxService(connRepo, v, exchanger, factory, appLogger)

	f.user = model.NewUser("google_1", "alex@example.com", "Alex Chen")
	_, err := mailbox.Connect(context.Background(), f.user.ID, "code")
	assert.NoError(t, err)

	f.draft = model.NewDraft(f.user.ID, "rec-1", "Subject", "Body", model.PurposeResearchInquiry, model.ToneFormal, "openai")
	f.draft.Status = model.DraftStatusSent
	f.draft.ProviderThreadID = "thread-1"
	assert.NoError(t, draftRepo.Create(context.Background(), f.draft))

	f.svc = NewThreadService(draftRepo, mailbox, factory, appLogger)
	return f
}

func TestGetThreadClassifiesSenders(t *testing.T) {
	f := newThreadFixture(t)

	f.client.ThreadFunc = func(ctx context.Context, threadID string) ([]*model.ThreadMessage, error) {
		assert.Equal(t, "thread-1", threadID)
		return []*model.ThreadMessage{
			{ID: "m1", From: "Alex Chen <Sender@Example.com>", Body: "Hello"},
			{ID: "m2", From: "smith@university.edu", Body: "Thanks for reaching out"},
			{ID: "m3", From: "sender@example.com", Body: "Following up"},
			{ID: "m4", From: "", Body: "headerless"},
		}, nil
	}

	messages, err := f.svc.GetThread(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.True(t, messages[0].IsFromMe)
	assert.False(t, messages[1].IsFromMe)
	assert.True(t, messages[2].IsFromMe)
	assert.False(t, messages[3].IsFromMe)
}

func TestGetReplyStatsSkipsOriginalMessage(t *testing.T) {
	f := newThreadFixture(t)

	f.client.ThreadFunc = func(ctx context.Context, threadID string) ([]*model.ThreadMessage, error) {
		return []*model.ThreadMessage{
			{ID: "m1", From: "sender@example.com", Body: "the original email"},
			{ID: "m2", From: "smith@university.edu", Body: "reply"},
			{ID: "m3", From: "sender@example.com", Body: "follow-up"},
			{ID: "m4", From: "smith@university.edu", Body: "another reply"},
		}, nil
	}

	stats, err := f.svc.GetReplyStats(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Replies)
	assert.Equal(t, 1, stats.FollowUps)
}

func TestGetReplyStatsEmptyThread(t *testing.T) {
	f := newThreadFixture(t)

	stats, err := f.svc.GetReplyStats(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Replies)
	assert.Equal(t, 0, stats.FollowUps)
}

func TestGetThreadRequiresSentDraft(t *testing.T) {
	f := newThreadFixture(t)

	f.draft.Status = model.DraftStatusDraft
	f.draft.ProviderThreadID = ""
	// The fixture repo holds a pointer, so the mutation is visible

	_, err := f.svc.GetThread(context.Background(), f.user.ID, f.draft.ID)
	assert.ErrorIs(t, err, ErrNotSent)
}

func TestGetThreadForeignDraft(t *testing.T) {
	f := newThreadFixture(t)

	_, err := f.svc.GetThread(context.Background(), "someone-else", f.draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
