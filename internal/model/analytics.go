package model

import "time"

// TimelineBucket counts engagement events within one hour.
type TimelineBucket struct {
	Hour   time.Time `json:"hour"`
	Opens  int       `json:"opens"`
	Clicks int       `json:"clicks"`
}

// EngagementSummary aggregates tracking events for a single draft. The
// breakdown fields are only populated for Pro accounts.
type EngagementSummary struct {
	DraftID      string `json:"draft_id"`
	TotalOpens   int    `json:"total_opens"`
	UniqueOpens  int    `json:"unique_opens"`
	TotalClicks  int    `json:"total_clicks"`
	UniqueClicks int    `json:"unique_clicks"`

	DeviceBreakdown  map[string]int   `json:"device_breakdown,omitempty"`
	BrowserBreakdown map[string]int   `json:"browser_breakdown,omitempty"`
	OSBreakdown      map[string]int   `json:"os_breakdown,omitempty"`
	Timeline         []TimelineBucket `json:"timeline,omitempty"`
	ClicksByURL      map[string]int   `json:"clicks_by_url,omitempty"`
}
