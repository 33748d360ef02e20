package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/ai"
	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/ratelimit"
	"outreachpilot/internal/repository/memory"
)

type composerFixture struct {
	draftRepo *memory.InMemoryDraftRepository
	usageRepo *memory.InMemoryUsageRepository
	aiClient  *ai.MockClient
	svc       ComposerService

	user      *model.User
	recipient *model.Recipient
}

func newComposerFixture(t *testing.T) *composerFixture {
	t.Helper()

	f := &composerFixture{
		draftRepo: memory.NewInMemoryDraftRepository(),
		usageRepo: memory.NewInMemoryUsageRepository(),
		aiClient:  ai.NewMockClient(),
	}

	userRepo := memory.NewInMemoryUserRepository()
	recipientRepo := memory.NewInMemoryRecipientRepository()
	documentRepo := memory.NewInMemoryDocumentRepository()

	f.user = model.NewUser("google_1", "alex@example.com", "Alex Chen")
	assert.NoError(t, userRepo.Create(context.Background(), f.user))

	f.recipient = model.NewRecipient(f.user.ID, "Dr. Smith", "smith@university.edu", "State University", "Professor", "")
	assert.NoError(t, recipientRepo.Create(context.Background(), f.recipient))

	limiter, err := ratelimit.NewBucket(ratelimit.NewMemoryStore(), ratelimit.Config{
		Capacity:       2,
		RefillRate:     2,
		RefillInterval: time.Hour,
	})
	assert.NoError(t, err)

	factory := func(provider string) (ai.Client, error) {
		if provider != "" && provider != "mock" {
			return nil, ai.ErrProviderUnavailable
		}
		return f.aiClient, nil
	}

	f.svc = NewComposerService(f.draftRepo, recipientRepo, userRepo, documentRepo, f.usageRepo, factory, limiter, logger.New())
	return f
}

func (f *composerFixture) request() *GenerateRequest {
	return &GenerateRequest{
		RecipientID: f.recipient.ID,
		Purpose:     model.PurposeResearchInquiry,
		Tone:        model.ToneFormal,
		Provider:    "mock",
	}
}

func TestGenerateDraftPersistsParsedContent(t *testing.T) {
	f := newComposerFixture(t)

	f.aiClient.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		assert.Contains(t, userPrompt, "Dr. Smith")
		return `{"subject": "Research inquiry", "body": "Dear Dr. Smith,\n\nI admire your work."}`, nil
	}

	draft, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.NoError(t, err)
	assert.Equal(t, "Research inquiry", draft.Subject)
	assert.Equal(t, "Dear Dr. Smith,\n\nI admire your work.", draft.Body)
	assert.Equal(t, model.DraftStatusDraft, draft.Status)
	assert.Equal(t, "mock", draft.Provider)

	stored, err := f.draftRepo.FindByID(context.Background(), draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, draft.Subject, stored.Subject)

	records, err := f.usageRepo.FindByUserID(context.Background(), f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.True(t, records[0].Success)
}

func TestGenerateDraftRejectsInvalidPurposeAndTone(t *testing.T) {
	f := newComposerFixture(t)

	req := f.request()
	req.Purpose = "world_domination"
	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = f.request()
	req.Tone = "sarcastic"
	_, err = f.svc.GenerateDraft(context.Background(), f.user.ID, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateDraftRejectsForeignRecipient(t *testing.T) {
	f := newComposerFixture(t)

	req := f.request()
	req.RecipientID = "not-yours"
	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateDraftRateLimited(t *testing.T) {
	f := newComposerFixture(t)

	// Bucket capacity is 2; the third call must be refused
	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.NoError(t, err)
	_, err = f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.NoError(t, err)

	_, err = f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGenerateDraftProviderFailureRecordsUsage(t *testing.T) {
	f := newComposerFixture(t)

	f.aiClient.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "", errors.New("upstream 500")
	}

	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.Error(t, err)

	records, err := f.usageRepo.FindByUserID(context.Background(), f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestGenerateDraftUnparsableResponse(t *testing.T) {
	f := newComposerFixture(t)

	f.aiClient.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		return "", nil
	}

	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.ErrorIs(t, err, ai.ErrUnparsable)

	records, err := f.usageRepo.FindByUserID(context.Background(), f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestGenerateDraftUnknownProvider(t *testing.T) {
	f := newComposerFixture(t)

	req := f.request()
	req.Provider = "clippy"
	_, err := f.svc.GenerateDraft(context.Background(), f.user.ID, req)
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
}

func TestCreateDraftStoresManualContent(t *testing.T) {
	f := newComposerFixture(t)

	generateCalled := false
	f.aiClient.GenerateFunc = func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		generateCalled = true
		return "", nil
	}

	draft, err := f.svc.CreateDraft(context.Background(), f.user.ID, &CreateDraftRequest{
		RecipientID: f.recipient.ID,
		Subject:     "Hand-written subject",
		Body:        "Hand-written body.",
		Purpose:     model.PurposeNetworking,
		Tone:        model.ToneFriendly,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Hand-written subject", draft.Subject)
	assert.Equal(t, "Hand-written body.", draft.Body)
	assert.Equal(t, model.DraftStatusDraft, draft.Status)
	assert.Empty(t, draft.Provider)
	assert.False(t, generateCalled)

	stored, err := f.draftRepo.FindByID(context.Background(), draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Hand-written subject", stored.Subject)

	// No provider attempt means no usage record
	records, err := f.usageRepo.FindByUserID(context.Background(), f.user.ID)
	assert.NoError(t, err)
	assert.Len(t, records, 0)
}

func TestCreateDraftRequiresSubjectAndBody(t *testing.T) {
	f := newComposerFixture(t)

	_, err := f.svc.CreateDraft(context.Background(), f.user.ID, &CreateDraftRequest{
		RecipientID: f.recipient.ID,
		Subject:     "   ",
		Body:        "Body",
		Purpose:     model.PurposeNetworking,
		Tone:        model.ToneFriendly,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateDraft(context.Background(), f.user.ID, &CreateDraftRequest{
		RecipientID: f.recipient.ID,
		Subject:     "Subject",
		Body:        "",
		Purpose:     model.PurposeNetworking,
		Tone:        model.ToneFriendly,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateDraftRejectsForeignRecipient(t *testing.T) {
	f := newComposerFixture(t)

	_, err := f.svc.CreateDraft(context.Background(), f.user.ID, &CreateDraftRequest{
		RecipientID: "not-yours",
		Subject:     "Subject",
		Body:        "Body",
		Purpose:     model.PurposeNetworking,
		Tone:        model.ToneFriendly,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDraftBlockedAfterSend(t *testing.T) {
	f := newComposerFixture(t)

	draft, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.NoError(t, err)

	draft.Status = model.DraftStatusSent
	assert.NoError(t, f.draftRepo.Update(context.Background(), draft))

	_, err = f.svc.UpdateDraft(context.Background(), f.user.ID, draft.ID, "New subject", "")
	assert.ErrorIs(t, err, ErrAlreadySent)
}

func TestUpdateDraftEditsFields(t *testing.T) {
	f := newComposerFixture(t)

	draft, err := f.svc.GenerateDraft(context.Background(), f.user.ID, f.request())
	assert.NoError(t, err)

	updated, err := f.svc.UpdateDraft(context.Background(), f.user.ID, draft.ID, "Revised subject", "Revised body")
	assert.NoError(t, err)
	assert.Equal(t, "Revised subject", updated.Subject)
	assert.Equal(t, "Revised body", updated.Body)
}
