package model

import (
	"time"

	"github.com/google/uuid"
)

// Recipient is the context record a draft is composed against.
type Recipient struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization"`
	Role         string    `json:"role"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewRecipient(userID, name, email, organization, role, notes string) *Recipient {
	now := time.Now()
	return &Recipient{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         name,
		Email:        email,
		Organization: organization,
		Role:         role,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
