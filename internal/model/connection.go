package model

import "time"

// MailboxConnection holds the encrypted OAuth credential for a user's
// mailbox. One per user. Both ciphertexts decrypt together or the record
// is invalid and must be purged.
type MailboxConnection struct {
	UserID                string    `json:"user_id"`
	EncryptedAccessToken  string    `json:"-"`
	EncryptedRefreshToken string    `json:"-"`
	ExpiresAt             time.Time `json:"expires_at"`
	EmailAddress          string    `json:"email_address"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func NewMailboxConnection(userID, encAccess, encRefresh, emailAddress string, expiresAt time.Time) *MailboxConnection {
	now := time.Now()
	return &MailboxConnection{
		UserID:                userID,
		EncryptedAccessToken:  encAccess,
		EncryptedRefreshToken: encRefresh,
		ExpiresAt:             expiresAt,
		EmailAddress:          emailAddress,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
