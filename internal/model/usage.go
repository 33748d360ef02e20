package model

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord accounts for one generation attempt, successful or not.
// Consumed by billing and rate-limit reporting.
type UsageRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Provider  string    `json:"provider"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUsageRecord(userID, provider string, success bool) *UsageRecord {
	return &UsageRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Provider:  provider,
		Success:   success,
		CreatedAt: time.Now(),
	}
}
