package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file that can be attached to outgoing drafts.
type Document struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewDocument(userID, filename, contentType string, data []byte) *Document {
	return &Document{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}
}
