package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository/memory"
	"outreachpilot/internal/sse"
)

const (
	chromeMacUA   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	safariPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
)

type analyticsFixture struct {
	userRepo *memory.InMemoryUserRepository
	svc      AnalyticsService

	user  *model.User
	draft *model.Draft
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()

	f := &analyticsFixture{
		userRepo: memory.NewInMemoryUserRepository(),
	}

	draftRepo := memory.NewInMemoryDraftRepository()
	eventRepo := memory.NewInMemoryEventRepository()
	manager := sse.NewManager(logger.New())
	t.Cleanup(manager.Close)

	f.user = model.NewUser("google_1", "alex@example.com", "Alex Chen")
	assert.NoError(t, f.userRepo.Create(context.Background(), f.user))

	f.draft = model.NewDraft(f.user.ID, "rec-1", "Subject", "Body", model.PurposeResearchInquiry, model.ToneFormal, "openai")
	f.draft.TrackingID = "tid-123"
	assert.NoError(t, draftRepo.Create(context.Background(), f.draft))

	f.svc = NewAnalyticsService(draftRepo, eventRepo, f.userRepo, manager, logger.New())
	return f
}

func TestRecordOpenUnknownTrackingID(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.svc.RecordOpen(context.Background(), "no-such-tid", "1.2.3.4", chromeMacUA)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordClickUnknownTrackingID(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.svc.RecordClick(context.Background(), "no-such-tid", "1.2.3.4", chromeMacUA, "https://example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarizeFreeTierCountsOnly(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.svc.RecordOpen(context.Background(), "tid-123", "1.1.1.1", chromeMacUA)
	assert.NoError(t, err)
	_, err = f.svc.RecordOpen(context.Background(), "tid-123", "1.1.1.1", chromeMacUA)
	assert.NoError(t, err)
	_, err = f.svc.RecordOpen(context.Background(), "tid-123", "2.2.2.2", safariPhoneUA)
	assert.NoError(t, err)
	_, err = f.svc.RecordClick(context.Background(), "tid-123", "1.1.1.1", chromeMacUA, "https://example.com/paper")
	assert.NoError(t, err)

	summary, err := f.svc.Summarize(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.TotalOpens)
	assert.Equal(t, 2, summary.UniqueOpens)
	assert.Equal(t, 1, summary.TotalClicks)
	assert.Equal(t, 1, summary.UniqueClicks)

	// Breakdowns stay hidden on the free tier
	assert.Nil(t, summary.DeviceBreakdown)
	assert.Nil(t, summary.BrowserBreakdown)
	assert.Nil(t, summary.OSBreakdown)
	assert.Nil(t, summary.ClicksByURL)
	assert.Nil(t, summary.Timeline)
}

func TestSummarizeProTierBreakdowns(t *testing.T) {
	f := newAnalyticsFixture(t)

	f.user.Tier = model.TierPro
	assert.NoError(t, f.userRepo.Update(context.Background(), f.user))

	_, err := f.svc.RecordOpen(context.Background(), "tid-123", "1.1.1.1", chromeMacUA)
	assert.NoError(t, err)
	_, err = f.svc.RecordOpen(context.Background(), "tid-123", "2.2.2.2", safariPhoneUA)
	assert.NoError(t, err)
	_, err = f.svc.RecordClick(context.Background(), "tid-123", "1.1.1.1", chromeMacUA, "https://example.com/paper")
	assert.NoError(t, err)
	_, err = f.svc.RecordClick(context.Background(), "tid-123", "3.3.3.3", chromeMacUA, "https://example.com/paper")
	assert.NoError(t, err)

	summary, err := f.svc.Summarize(context.Background(), f.user.ID, f.draft.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.DeviceBreakdown["desktop"])
	assert.Equal(t, 1, summary.DeviceBreakdown["mobile"])
	assert.Equal(t, 1, summary.BrowserBreakdown["Chrome"])
	assert.Equal(t, 1, summary.BrowserBreakdown["Safari"])
	assert.Equal(t, 1, summary.OSBreakdown["macOS"])
	assert.Equal(t, 1, summary.OSBreakdown["iOS"])
	assert.Equal(t, 2, summary.ClicksByURL["https://example.com/paper"])

	// All events land in the current hour bucket
	assert.Len(t, summary.Timeline, 1)
	assert.Equal(t, 2, summary.Timeline[0].Opens)
	assert.Equal(t, 2, summary.Timeline[0].Clicks)
}

func TestSummarizeForeignDraft(t *testing.T) {
	f := newAnalyticsFixture(t)

	_, err := f.svc.Summarize(context.Background(), "someone-else", f.draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
