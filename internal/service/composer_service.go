package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outreachpilot/internal/ai"
	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/ratelimit"
	"outreachpilot/internal/repository"
)

type composerService struct {
	draftRepo     repository.DraftRepository
	recipientRepo repository.RecipientRepository
	userRepo      repository.UserRepository
	documentRepo  repository.DocumentRepository
	usageRepo     repository.UsageRepository
	clientFactory ai.Factory
	limiter       ratelimit.Limiter
	logger        *logger.Logger
}

func NewComposerService(
	draftRepo repository.DraftRepository,
	recipientRepo repository.RecipientRepository,
	userRepo repository.UserRepository,
	documentRepo repository.DocumentRepository,
	usageRepo repository.UsageRepository,
	clientFactory ai.Factory,
	limiter ratelimit.Limiter,
	logger *logger.Logger,
) ComposerService {
	return &composerService{
		draftRepo:     draftRepo,
		recipientRepo: recipientRepo,
		userRepo:      userRepo,
		documentRepo:  documentRepo,
		usageRepo:     usageRepo,
		clientFactory: clientFactory,
		limiter:       limiter,
		logger:        logger,
	}
}

func (s *composerService) GenerateDraft(ctx context.Context, userID string, req *GenerateRequest) (*model.Draft, error) {
	if !req.Purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, req.Purpose)
	}
	if !req.Tone.Valid() {
		return nil, fmt.Errorf("%w: unknown tone %q", ErrInvalidInput, req.Tone)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.recipientRepo.FindByID(ctx, req.RecipientID)
	if err != nil || recipient.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.verifyAttachments(ctx, userID, req.AttachedDocumentIDs); err != nil {
		return nil, err
	}

	result, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !result.Allowed() {
		s.logger.Warn("Generation rate limit hit for user:", userID)
		return nil, fmt.Errorf("%w: retry after %s", ErrRateLimited, result.RetryAfter())
	}

	client, err := s.clientFactory(req.Provider)
	if err != nil {
		return nil, err
	}

	userPrompt := ai.BuildPrompt(user, recipient, req.Purpose, req.Tone, req.ExtraContext)
	raw, err := client.Generate(ctx, ai.SystemPrompt(), userPrompt)
	if err != nil {
		s.recordUsage(ctx, userID, client.Provider(), false)
		s.logger.Error("Provider generation failed:", err)
		return nil, err
	}

	content, err := ai.ParseDraft(raw)
	if err != nil {
		s.recordUsage(ctx, userID, client.Provider(), false)
		s.logger.Error("Failed to parse provider response:", err)
		return nil, errors.Join(ai.ErrUnparsable, err)
	}

	s.recordUsage(ctx, userID, client.Provider(), true)

	draft := model.NewDraft(userID, req.RecipientID, content.Subject, content.Body, req.Purpose, req.Tone, client.Provider())
	draft.AttachedDocumentIDs = req.AttachedDocumentIDs
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		s.logger.Error("Failed to persist draft:", err)
		return nil, err
	}
	s.logger.Info("Generated draft:", draft.ID, "via", draft.Provider)
	return draft, nil
}

// CreateDraft persists a draft the user wrote themselves. No provider
// call is made and no usage is recorded.
func (s *composerService) CreateDraft(ctx context.Context, userID string, req *CreateDraftRequest) (*model.Draft, error) {
	if !req.Purpose.Valid() {
		return nil, fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, req.Purpose)
	}
	if !req.Tone.Valid() {
		return nil, fmt.Errorf("%w: unknown tone %q", ErrInvalidInput, req.Tone)
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: subject and body are required", ErrInvalidInput)
	}

	recipient, err := s.recipientRepo.FindByID(ctx, req.RecipientID)
	if err != nil || recipient.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.verifyAttachments(ctx, userID, req.AttachedDocumentIDs); err != nil {
		return nil, err
	}

	draft := model.NewDraft(userID, req.RecipientID, req.Subject, req.Body, req.Purpose, req.Tone, "")
	draft.AttachedDocumentIDs = req.AttachedDocumentIDs
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		s.logger.Error("Failed to persist draft:", err)
		return nil, err
	}
	s.logger.Info("Created manual draft:", draft.ID)
	return draft, nil
}

// verifyAttachments checks that every referenced document exists and
// belongs to the caller before a draft references it.
func (s *composerService) verifyAttachments(ctx context.Context, userID string, docIDs []string) error {
	for _, docID := range docIDs {
		doc, err := s.documentRepo.FindByID(ctx, docID)
		if err != nil || doc.UserID != userID {
			return fmt.Errorf("%w: document %s", ErrNotFound, docID)
		}
	}
	return nil
}

// recordUsage keeps the accounting trail even when the attempt failed.
// A bookkeeping error never fails the caller's request.
func (s *composerService) recordUsage(ctx context.Context, userID, provider string, success bool) {
	record := model.NewUsageRecord(userID, provider, success)
	if err := s.usageRepo.Create(ctx, record); err != nil {
		s.logger.Warn("Failed to record usage:", err)
	}
}

func (s *composerService) GetDraft(ctx context.Context, userID, draftID string) (*model.Draft, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil || draft.UserID != userID {
		return nil, ErrNotFound
	}
	return draft, nil
}

func (s *composerService) GetAllDrafts(ctx context.Context, userID string) ([]*model.Draft, error) {
	return s.draftRepo.FindByUserID(ctx, userID)
}

func (s *composerService) UpdateDraft(ctx context.Context, userID, draftID, subject, body string) (*model.Draft, error) {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status == model.DraftStatusSent {
		return nil, ErrAlreadySent
	}

	if subject != "" {
		draft.Subject = subject
	}
	if body != "" {
		draft.Body = body
	}
	draft.UpdatedAt = time.Now()

	if err := s.draftRepo.Update(ctx, draft); err != nil {
		s.logger.Error("Failed to update draft:", err)
		return nil, err
	}
	return draft, nil
}

func (s *composerService) DeleteDraft(ctx context.Context, userID, draftID string) error {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return err
	}

	if err := s.draftRepo.Delete(ctx, draft.ID); err != nil {
		s.logger.Error("Failed to delete draft:", err)
		return err
	}
	s.logger.Info("Deleted draft:", draft.ID)
	return nil
}
