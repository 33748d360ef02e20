package service

import (
	"context"
	"time"

	"outreachpilot/internal/model"
)

type AuthService interface {
	GetOrCreateUser(ctx context.Context, googleID, email, name string) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, name, title, company, about, skills string) (*model.User, error)
}

type RecipientService interface {
	CreateRecipient(ctx context.Context, userID, name, email, organization, role, notes string) (*model.Recipient, error)
	GetRecipient(ctx context.Context, userID, recipientID string) (*model.Recipient, error)
	GetAllRecipients(ctx context.Context, userID string) ([]*model.Recipient, error)
	UpdateRecipient(ctx context.Context, userID, recipientID, name, email, organization, role, notes string) (*model.Recipient, error)
	DeleteRecipient(ctx context.Context, userID, recipientID string) error
}

type ComposerService interface {
	GenerateDraft(ctx context.Context, userID string, req *GenerateRequest) (*model.Draft, error)
	CreateDraft(ctx context.Context, userID string, req *CreateDraftRequest) (*model.Draft, error)
	GetDraft(ctx context.Context, userID, draftID string) (*model.Draft, error)
	GetAllDrafts(ctx context.Context, userID string) ([]*model.Draft, error)
	UpdateDraft(ctx context.Context, userID, draftID, subject, body string) (*model.Draft, error)
	DeleteDraft(ctx context.Context, userID, draftID string) error
}

// GenerateRequest carries everything the composer needs for one draft.
type GenerateRequest struct {
	RecipientID         string
	Purpose             model.Purpose
	Tone                model.Tone
	Provider            string
	ExtraContext        string
	AttachedDocumentIDs []string
}

// CreateDraftRequest carries a draft the user wrote by hand; no
// provider is involved.
type CreateDraftRequest struct {
	RecipientID         string
	Subject             string
	Body                string
	Purpose             model.Purpose
	Tone                model.Tone
	AttachedDocumentIDs []string
}

type MailboxService interface {
	Connect(ctx context.Context, userID, authCode string) (*model.MailboxConnection, error)
	GetValidAccessToken(ctx context.Context, userID string) (string, error)
	Connection(ctx context.Context, userID string) (*model.MailboxConnection, error)
	Disconnect(ctx context.Context, userID string) error
}

type DispatchService interface {
	Send(ctx context.Context, userID, draftID string) (*model.Draft, error)
	Reply(ctx context.Context, userID, draftID, body string) (*model.Draft, error)
}

type ThreadService interface {
	GetThread(ctx context.Context, userID, draftID string) ([]*model.ThreadMessage, error)
	GetReplyStats(ctx context.Context, userID, draftID string) (*model.ReplyStats, error)
}

type AnalyticsService interface {
	Summarize(ctx context.Context, userID, draftID string) (*model.EngagementSummary, error)
	RecordOpen(ctx context.Context, trackingID, ipAddress, userAgent string) (*model.OpenEvent, error)
	RecordClick(ctx context.Context, trackingID, ipAddress, userAgent, url string) (*model.ClickEvent, error)
}

type DocumentService interface {
	UploadDocument(ctx context.Context, userID, filename, contentType string, data []byte) (*model.Document, error)
	GetDocuments(ctx context.Context, userID string) ([]*model.Document, error)
	DeleteDocument(ctx context.Context, userID, documentID string) error
}

// OutgoingMessage is the provider-neutral shape handed to a MailboxClient.
type OutgoingMessage struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []*model.Document
	ThreadID    string
	InReplyTo   string
	References  string
}

// SendResult carries the provider identifiers assigned to a sent message.
type SendResult struct {
	MessageID string
	ThreadID  string
}

// MessageRefs holds the headers needed to thread a reply onto an
// earlier message.
type MessageRefs struct {
	MessageIDHeader string
	ThreadID        string
}

// MailboxClient interface for interacting with the Gmail API
type MailboxClient interface {
	Profile(ctx context.Context) (string, error)
	Send(ctx context.Context, msg *OutgoingMessage) (*SendResult, error)
	Thread(ctx context.Context, threadID string) ([]*model.ThreadMessage, error)
	MessageRefs(ctx context.Context, messageID string) (*MessageRefs, error)
}

// MailboxClientFactory builds a MailboxClient bound to an access token.
type MailboxClientFactory func(accessToken string) (MailboxClient, error)

// ExchangedToken is the result of trading an auth code or refresh token
// for fresh credentials.
type ExchangedToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenExchanger abstracts the OAuth token endpoint.
type TokenExchanger interface {
	Exchange(ctx context.Context, authCode string) (*ExchangedToken, error)
	Refresh(ctx context.Context, refreshToken string) (*ExchangedToken, error)
}
