package model

import (
	"time"

	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeJobApplication  Purpose = "job_application"
	PurposeResearchInquiry Purpose = "research_inquiry"
	PurposeCollaboration   Purpose = "collaboration"
	PurposeMentorship      Purpose = "mentorship"
	PurposeNetworking      Purpose = "networking"
	PurposeOther           Purpose = "other"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeJobApplication, PurposeResearchInquiry, PurposeCollaboration,
		PurposeMentorship, PurposeNetworking, PurposeOther:
		return true
	}
	return false
}

type Tone string

const (
	ToneFormal       Tone = "formal"
	ToneFriendly     Tone = "friendly"
	ToneConcise      Tone = "concise"
	ToneEnthusiastic Tone = "enthusiastic"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneFormal, ToneFriendly, ToneConcise, ToneEnthusiastic:
		return true
	}
	return false
}

type DraftStatus string

const (
	DraftStatusDraft  DraftStatus = "draft"
	DraftStatusSent   DraftStatus = "sent"
	DraftStatusFailed DraftStatus = "failed"
)

// Draft is a generated (possibly unsent) outreach email. Status moves
// draft -> sent exactly once; failed drafts stay re-sendable.
type Draft struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"user_id"`
	RecipientID         string      `json:"recipient_id"`
	Subject             string      `json:"subject"`
	Body                string      `json:"body"`
	Purpose             Purpose     `json:"purpose"`
	Tone                Tone        `json:"tone"`
	Status              DraftStatus `json:"status"`
	Provider            string      `json:"provider"`
	AttachedDocumentIDs []string    `json:"attached_document_ids"`
	TrackingID          string      `json:"tracking_id,omitempty"`
	ProviderMessageID   string      `json:"provider_message_id,omitempty"`
	ProviderThreadID    string      `json:"provider_thread_id,omitempty"`
	ErrorMessage        string      `json:"error_message,omitempty"`
	SentAt              *time.Time  `json:"sent_at,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func NewDraft(userID, recipientID, subject, body string, purpose Purpose, tone Tone, provider string) *Draft {
	now := time.Now()
	return &Draft{
		ID:          uuid.New().String(),
		UserID:      userID,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		Purpose:     purpose,
		Tone:        tone,
		Status:      DraftStatusDraft,
		Provider:    provider,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
