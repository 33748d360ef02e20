package service

import (
	"context"
	"strings"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
)

type threadService struct {
	draftRepo     repository.DraftRepository
	mailbox       MailboxService
	clientFactory MailboxClientFactory
	logger        *logger.Logger
}

func NewThreadService(
	draftRepo repository.DraftRepository,
	mailbox MailboxService,
	clientFactory MailboxClientFactory,
	logger *logger.Logger,
) ThreadService {
	return &threadService{
		draftRepo:     draftRepo,
		mailbox:       mailbox,
		clientFactory: clientFactory,
		logger:        logger,
	}
}

func (s *threadService) GetThread(ctx context.Context, userID, draftID string) ([]*model.ThreadMessage, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil || draft.UserID != userID {
		return nil, ErrNotFound
	}
	if draft.Status != model.DraftStatusSent || draft.ProviderThreadID == "" {
		return nil, ErrNotSent
	}

	accessToken, err := s.mailbox.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	conn, err := s.mailbox.Connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	client, err := s.clientFactory(accessToken)
	if err != nil {
		return nil, err
	}

	messages, err := client.Thread(ctx, draft.ProviderThreadID)
	if err != nil {
		s.logger.Error("Failed to fetch thread for draft:", draft.ID, err)
		return nil, err
	}

	for _, msg := range messages {
		msg.IsFromMe = isFromAddress(msg.From, conn.EmailAddress)
	}
	return messages, nil
}

// GetReplyStats counts the messages that arrived after the original
// outbound email, split by sender. The first message in the thread is
// the draft itself and is excluded.
func (s *threadService) GetReplyStats(ctx context.Context, userID, draftID string) (*model.ReplyStats, error) {
	messages, err := s.GetThread(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	stats := &model.ReplyStats{}
	if len(messages) == 0 {
		return stats, nil
	}
	for _, msg := range messages[1:] {
		if msg.IsFromMe {
			stats.FollowUps++
		} else {
			stats.Replies++
		}
	}
	return stats, nil
}

// isFromAddress reports whether the From header names the given
// mailbox. Headers arrive as either a bare address or a display-name
// form like "Jane Doe <jane@example.com>".
func isFromAddress(fromHeader, address string) bool {
	if address == "" {
		return false
	}
	return strings.Contains(strings.ToLower(fromHeader), strings.ToLower(address))
}
