package repository

import (
	"context"

	"outreachpilot/internal/model"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// RecipientRepository defines the interface for recipient context records
type RecipientRepository interface {
	Create(ctx context.Context, recipient *model.Recipient) error
	FindByID(ctx context.Context, id string) (*model.Recipient, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Recipient, error)
	Update(ctx context.Context, recipient *model.Recipient) error
	Delete(ctx context.Context, id string) error
}

// DraftRepository defines the interface for draft data operations
type DraftRepository interface {
	Create(ctx context.Context, draft *model.Draft) error
	FindByID(ctx context.Context, id string) (*model.Draft, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Draft, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*model.Draft, error)
	Update(ctx context.Context, draft *model.Draft) error
	Delete(ctx context.Context, id string) error
}

// DocumentRepository defines the interface for attachment storage
type DocumentRepository interface {
	Create(ctx context.Context, document *model.Document) error
	FindByID(ctx context.Context, id string) (*model.Document, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Document, error)
	Delete(ctx context.Context, id string) error
}

// ConnectionRepository stores one mailbox connection per user
type ConnectionRepository interface {
	Save(ctx context.Context, conn *model.MailboxConnection) error
	FindByUserID(ctx context.Context, userID string) (*model.MailboxConnection, error)
	Delete(ctx context.Context, userID string) error
}

// EventRepository stores append-only open/click tracking events
type EventRepository interface {
	CreateOpen(ctx context.Context, event *model.OpenEvent) error
	CreateClick(ctx context.Context, event *model.ClickEvent) error
	FindOpensByDraftID(ctx context.Context, draftID string) ([]*model.OpenEvent, error)
	FindClicksByDraftID(ctx context.Context, draftID string) ([]*model.ClickEvent, error)
}

// UsageRepository stores generation usage accounting records
type UsageRepository interface {
	Create(ctx context.Context, record *model.UsageRecord) error
	FindByUserID(ctx context.Context, userID string) ([]*model.UsageRecord, error)
}
