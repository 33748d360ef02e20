package model

import (
	"time"

	"github.com/google/uuid"
)

// OpenEvent records a hit on the open-tracking pixel. Append-only.
type OpenEvent struct {
	ID        string    `json:"id"`
	DraftID   string    `json:"draft_id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOpenEvent(draftID, ipAddress, userAgent string) *OpenEvent {
	return &OpenEvent{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
}

// ClickEvent records a hit on the click-redirect endpoint. Append-only.
type ClickEvent struct {
	ID        string    `json:"id"`
	DraftID   string    `json:"draft_id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func NewClickEvent(draftID, ipAddress, userAgent, url string) *ClickEvent {
	return &ClickEvent{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		URL:       url,
		CreatedAt: time.Now(),
	}
}
