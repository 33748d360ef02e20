package service

import (
	"context"
	"sort"
	"time"

	"outreachpilot/internal/logger"
	"outreachpilot/internal/model"
	"outreachpilot/internal/repository"
	"outreachpilot/internal/sse"
	"outreachpilot/internal/useragent"
)

type analyticsService struct {
	draftRepo  repository.DraftRepository
	eventRepo  repository.EventRepository
	userRepo   repository.UserRepository
	sseManager *sse.Manager
	logger     *logger.Logger
}

func NewAnalyticsService(
	draftRepo repository.DraftRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	sseManager *sse.Manager,
	logger *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		draftRepo:  draftRepo,
		eventRepo:  eventRepo,
		userRepo:   userRepo,
		sseManager: sseManager,
		logger:     logger,
	}
}

func (s *analyticsService) RecordOpen(ctx context.Context, trackingID, ipAddress, userAgent string) (*model.OpenEvent, error) {
	draft, err := s.draftRepo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, ErrNotFound
	}

	event := model.NewOpenEvent(draft.ID, ipAddress, userAgent)
	if err := s.eventRepo.CreateOpen(ctx, event); err != nil {
		s.logger.Error("Failed to record open event:", err)
		return nil, err
	}
	s.logger.Debug("Recorded open for draft:", draft.ID)
	s.sseManager.BroadcastToUser(draft.UserID, "open", event)
	return event, nil
}

func (s *analyticsService) RecordClick(ctx context.Context, trackingID, ipAddress, userAgent, url string) (*model.ClickEvent, error) {
	draft, err := s.draftRepo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, ErrNotFound
	}

	event := model.NewClickEvent(draft.ID, ipAddress, userAgent, url)
	if err := s.eventRepo.CreateClick(ctx, event); err != nil {
		s.logger.Error("Failed to record click event:", err)
		return nil, err
	}
	s.logger.Debug("Recorded click for draft:", draft.ID)
	s.sseManager.BroadcastToUser(draft.UserID, "click", event)
	return event, nil
}

// Summarize rolls up the engagement events for one draft. Every tier
// gets totals and unique counts; the device, browser, timeline, and
// per-URL breakdowns are reserved for Pro accounts.
func (s *analyticsService) Summarize(ctx context.Context, userID, draftID string) (*model.EngagementSummary, error) {
	draft, err := s.draftRepo.FindByID(ctx, draftID)
	if err != nil || draft.UserID != userID {
		return nil, ErrNotFound
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	opens, err := s.eventRepo.FindOpensByDraftID(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	clicks, err := s.eventRepo.FindClicksByDraftID(ctx, draft.ID)
	if err != nil {
		return nil, err
	}

	summary := &model.EngagementSummary{
		DraftID:      draft.ID,
		TotalOpens:   len(opens),
		TotalClicks:  len(clicks),
		UniqueOpens:  uniqueOpenIPs(opens),
		UniqueClicks: uniqueClickIPs(clicks),
	}

	if user.Tier != model.TierPro {
		return summary, nil
	}

	summary.DeviceBreakdown = make(map[string]int)
	summary.BrowserBreakdown = make(map[string]int)
	summary.OSBreakdown = make(map[string]int)
	summary.ClicksByURL = make(map[string]int)

	for _, open := range opens {
		info := useragent.Parse(open.UserAgent)
		summary.DeviceBreakdown[info.Device]++
		summary.BrowserBreakdown[info.Browser]++
		summary.OSBreakdown[info.OS]++
	}
	for _, click := range clicks {
		summary.ClicksByURL[click.URL]++
	}
	summary.Timeline = buildTimeline(opens, clicks)

	return summary, nil
}

func uniqueOpenIPs(opens []*model.OpenEvent) int {
	seen := make(map[string]struct{})
	for _, e := range opens {
		seen[e.IPAddress] = struct{}{}
	}
	return len(seen)
}

func uniqueClickIPs(clicks []*model.ClickEvent) int {
	seen := make(map[string]struct{})
	for _, e := range clicks {
		seen[e.IPAddress] = struct{}{}
	}
	return len(seen)
}

// buildTimeline buckets events by the hour they occurred in.
func buildTimeline(opens []*model.OpenEvent, clicks []*model.ClickEvent) []model.TimelineBucket {
	buckets := make(map[time.Time]*model.TimelineBucket)

	bucketFor := func(t time.Time) *model.TimelineBucket {
		hour := t.Truncate(time.Hour)
		b, ok := buckets[hour]
		if !ok {
			b = &model.TimelineBucket{Hour: hour}
			buckets[hour] = b
		}
		return b
	}

	for _, e := range opens {
		bucketFor(e.CreatedAt).Opens++
	}
	for _, e := range clicks {
		bucketFor(e.CreatedAt).Clicks++
	}

	timeline := make([]model.TimelineBucket, 0, len(buckets))
	for _, b := range buckets {
		timeline = append(timeline, *b)
	}
	sort.Slice(timeline, func(i, j int) bool {
		return timeline[i].Hour.Before(timeline[j].Hour)
	})
	return timeline
}
