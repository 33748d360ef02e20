package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository/memory"
	"outreachpilot/internal/tracking"
)

type dispatchFixture struct {
	draftRepo     *memory.InMemoryDraftRepository
	recipientRepo *memory.InMemoryRecipientRepository
	documentRepo  *memory.InMemoryDocumentRepository
	client        *mockMailboxClient
	svc           DispatchService

	user      *model.User
	recipient *model.Recipient
	draft     *model.Draft
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()

	f := &dispatchFixture{
		draftRepo:     memory.NewInMemoryDraftRepository(),
		recipientRepo: memory.NewInMemoryRecipientRepository(),
		documentRepo:  memory.NewInMemoryDocumentRepository(),
		client:        &mockMailboxClient{},
	}

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

	f.recipient = model.NewRecipient(f.user.ID, "Dr. Smith", "smith@university.edu", "State University", "Professor", "")
	assert.NoError(t, f.recipientRepo.Create(context.Background(), f.recipient))

	f.draft = model.NewDraft(f.user.ID, f.recipient.ID, "Quick question", "Hello,\n\nSee https://github.com/alex/project for details.\n\nBest,\nAlex", model.PurposeResearchInquiry, model.ToneFormal, "openai")
	assert.NoError(t, f.draftRepo.Create(context.Background(), f.draft))

	instrumenter := tracking.NewInstrumenter("https://app.example.com")
	f.svc = NewDispatchService(f.draftRepo, f.recipientRepo, f.documentRepo, mailbox, factory, instrumenter, appLogger)
	return f
}

func TestSendMarksDraftSent(t *testing.T) {
	f := newDispatchFixture(t)

	var sentMsg *OutgoingMessage
	f.client.SendFunc = func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
		sentMsg = msg
		return &SendResult{MessageID: "gm-msg-1", ThreadID: "gm-thread-1"}, nil
	}

	draft, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DraftStatusSent, draft.Status)
	assert.Equal(t, "gm-msg-1", draft.ProviderMessageID)
	assert.Equal(t, "gm-thread-1", draft.ProviderThreadID)
	assert.NotEmpty(t, draft.TrackingID)
	assert.NotNil(t, draft.SentAt)

	// The outgoing message carries the instrumented body
	assert.Equal(t, "sender@example.com", sentMsg.From)
	assert.Contains(t, sentMsg.To, "smith@university.edu")
	assert.Contains(t, sentMsg.HTMLBody, "/track/open?tid="+draft.TrackingID)
	assert.Contains(t, sentMsg.HTMLBody, "/track/click?tid=")
	assert.NotContains(t, sentMsg.HTMLBody, `href="https://github.com/alex/project"`)
}

func TestSendTwiceIsRejected(t *testing.T) {
	f := newDispatchFixture(t)

	sendCalls := 0
	f.client.SendFunc = func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
		sendCalls++
		return &SendResult{MessageID: "m", ThreadID: "t"}, nil
	}

	_, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)

	// The guard rejects before any transport call
	_, err = f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.ErrorIs(t, err, ErrAlreadySent)
	assert.Equal(t, 1, sendCalls)
}

func TestSendFailureIsRecordedAndRetryable(t *testing.T) {
	f := newDispatchFixture(t)

	f.client.SendFunc = func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
		return nil, errors.New("transport exploded")
	}

	_, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.Error(t, err)

	stored, err := f.draftRepo.FindByID(context.Background(), f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DraftStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "transport exploded")
	firstTrackingID := stored.TrackingID
	assert.NotEmpty(t, firstTrackingID)

	// A retry succeeds, clears the error, and reuses the tracking id
	f.client.SendFunc = nil
	draft, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DraftStatusSent, draft.Status)
	assert.Empty(t, draft.ErrorMessage)
	assert.Equal(t, firstTrackingID, draft.TrackingID)
}

func TestSendIncludesAttachments(t *testing.T) {
	f := newDispatchFixture(t)

	doc := model.NewDocument(f.user.ID, "resume.pdf", "application/pdf", []byte("pdf bytes"))
	assert.NoError(t, f.documentRepo.Create(context.Background(), doc))
	f.draft.AttachedDocumentIDs = []string{doc.ID}
	assert.NoError(t, f.draftRepo.Update(context.Background(), f.draft))

	var sentMsg *OutgoingMessage
	f.client.SendFunc = func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
		sentMsg = msg
		return &SendResult{MessageID: "m", ThreadID: "t"}, nil
	}

	_, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Len(t, sentMsg.Attachments, 1)
	assert.Equal(t, "resume.pdf", sentMsg.Attachments[0].Filename)
}

func TestSendRejectsForeignDraft(t *testing.T) {
	f := newDispatchFixture(t)

	_, err := f.svc.Send(context.Background(), "someone-else", f.draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplyRequiresSentDraft(t *testing.T) {
	f := newDispatchFixture(t)

	_, err := f.svc.Reply(context.Background(), f.user.ID, f.draft.ID, "Following up")
	assert.ErrorIs(t, err, ErrNotSent)
}

func TestReplyThreadsOntoOriginal(t *testing.T) {
	f := newDispatchFixture(t)

	_, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)

	f.client.MessageRefsFunc = func(ctx context.Context, messageID string) (*MessageRefs, error) {
		assert.Equal(t, "msg-1", messageID)
		return &MessageRefs{MessageIDHeader: "<abc@mail.gmail.com>", ThreadID: "thread-1"}, nil
	}
	var sentMsg *OutgoingMessage
	f.client.SendFunc = func(ctx context.Context, msg *OutgoingMessage) (*SendResult, error) {
		sentMsg = msg
		return &SendResult{MessageID: "msg-2", ThreadID: "thread-1"}, nil
	}

	_, err = f.svc.Reply(context.Background(), f.user.ID, f.draft.ID, "Just checking in.")
	assert.NoError(t, err)
	assert.Equal(t, "Re: Quick question", sentMsg.Subject)
	assert.Equal(t, "thread-1", sentMsg.ThreadID)
	assert.Equal(t, "<abc@mail.gmail.com>", sentMsg.InReplyTo)
	assert.Contains(t, sentMsg.HTMLBody, "Just checking in.")
}

func TestReplyRejectsEmptyBody(t *testing.T) {
	f := newDispatchFixture(t)

	_, err := f.svc.Send(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)

	_, err = f.svc.Reply(context.Background(), f.user.ID, f.draft.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
