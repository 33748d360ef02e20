package service

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
	"outreachpilot/internal/tracking"
)

type dispatchService struct {
	draftRepo     repository.DraftRepository
	recipientRepo repository.RecipientRepository
	documentRepo  repository.DocumentRepository
	mailbox       MailboxService
	clientFactory MailboxClientFactory
	instrumenter  *tracking.Instrumenter
	logger        *logger.Logger
}

func NewDispatchService(
	draftRepo repository.DraftRepository,
	recipientRepo repository.RecipientRepository,
	documentRepo repository.DocumentRepository,
	mailbox MailboxService,
	clientFactory MailboxClientFactory,
	instrumenter *tracking.Instrumenter,
	logger *logger.Logger,
) DispatchService {
	return &dispatchService{
		draftRepo:     draftRepo,
		recipientRepo: recipientRepo,
		documentRepo:  documentRepo,
		mailbox:       mailbox,
		clientFactory: clientFactory,
		instrumenter:  instrumenter,
		logger:        logger,
	}
}

func (s *dispatchService) Send(ctx context.Context, userID, draftID string) (*model.Draft, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil || draft.UserID != userID {
		return nil, ErrNotFound
	}
	if draft.Status == model.DraftStatusSent {
		return nil, ErrAlreadySent
	}

	recipient, err := s.recipientRepo.FindByID(ctx, draft.RecipientID)
	if err != nil {
		return nil, ErrNotFound
	}

	accessToken, err := s.mailbox.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	conn, err := s.mailbox.Connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.loadAttachments(ctx, draft)
	if err != nil {
		return nil, err
	}

	// The tracking ID survives a failed attempt so a retry reuses the
	// same pixel and click links.
	if draft.TrackingID == "" {
		draft.TrackingID = uuid.New().String()
	}

	htmlBody, err := s.instrumenter.Instrument(textToHTML(draft.Body), draft.TrackingID)
	if err != nil {
		s.logger.Error("Failed to instrument draft body:", err)
		return nil, err
	}

	client, err := s.clientFactory(accessToken)
	if err != nil {
		return nil, err
	}

	result, sendErr := client.Send(ctx, &OutgoingMessage{
		From:        conn.EmailAddress,
		To:          fmt.Sprintf("%s <%s>", recipient.Name, recipient.Email),
		Subject:     draft.Subject,
		HTMLBody:    htmlBody,
		Attachments: attachments,
	})

	draft.UpdatedAt = time.Now()
	if sendErr != nil {
		draft.Status = model.DraftStatusFailed
		draft.ErrorMessage = sendErr.Error()
		if err := s.draftRepo.Update(ctx, draft); err != nil {
			s.logger.Error("Failed to record send failure:", err)
		}
		s.logger.Error("Dispatch failed for draft:", draft.ID, sendErr)
		return nil, sendErr
	}

	draft.Status = model.DraftStatusSent
	draft.ErrorMessage = ""
	draft.ProviderMessageID = result.MessageID
	draft.ProviderThreadID = result.ThreadID
	now := time.Now()
	draft.SentAt = &now
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		// The message is already out; surface the bookkeeping failure
		// rather than pretending the send did not happen.
		s.logger.Error("Sent but failed to record draft state:", draft.ID, err)
		return nil, err
	}

	s.logger.Info("Dispatched draft:", draft.ID, "message:", result.MessageID)
	return draft, nil
}

func (s *dispatchService) Reply(ctx context.Context, userID, draftID, body string) (*model.Draft, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil || draft.UserID != userID {
		return nil, ErrNotFound
	}
	if draft.Status != model.DraftStatusSent || draft.ProviderMessageID == "" {
		return nil, ErrNotSent
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: reply body is empty", ErrInvalidInput)
	}

	recipient, err := s.recipientRepo.FindByID(ctx, draft.RecipientID)
	if err != nil {
		return nil, ErrNotFound
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

	refs, err := client.MessageRefs(ctx, draft.ProviderMessageID)
	if err != nil {
		return nil, err
	}

	subject := draft.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	result, err := client.Send(ctx, &OutgoingMessage{
		From:       conn.EmailAddress,
		To:         fmt.Sprintf("%s <%s>", recipient.Name, recipient.Email),
		Subject:    subject,
		HTMLBody:   textToHTML(body),
		ThreadID:   refs.ThreadID,
		InReplyTo:  refs.MessageIDHeader,
		References: refs.MessageIDHeader,
	})
	if err != nil {
		s.logger.Error("Reply dispatch failed for draft:", draft.ID, err)
		return nil, err
	}

	s.logger.Info("Sent reply on draft:", draft.ID, "message:", result.MessageID)
	return draft, nil
}

func (s *dispatchService) loadAttachments(ctx context.Context, draft *model.Draft) ([]*model.Document, error) {
	var attachments []*model.Document
	for _, docID := range draft.AttachedDocumentIDs {
		doc, err := s.documentRepo.FindByID(ctx, docID)
		if err != nil || doc.UserID != draft.UserID {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, docID)
		}
		attachments = append(attachments, doc)
	}
	return attachments, nil
}

// linkRe runs against already-escaped text, so &amp; is kept as a unit
// while other entities (&lt;, &gt;) terminate the URL.
var linkRe = regexp.MustCompile(`https?://(?:&amp;|[^\s"&])+`)

// textToHTML converts the plain text body into basic HTML paragraphs
// and turns bare URLs into anchors so they can be rewritten for click
// tracking.
func textToHTML(text string) string {
	var b strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			escaped := html.EscapeString(line)
			escaped = linkRe.ReplaceAllString(escaped, `<a href="$0">$0</a>`)
			b.WriteString("<p>" + escaped + "</p>")
		} else if i > 0 && i < len(lines)-1 {
			b.WriteString("<p>&nbsp;</p>")
		}
	}

	return b.String()
}
