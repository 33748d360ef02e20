package model

import (
	"time"

	"github.com/google/uuid"
)

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

type User struct {
	ID        string    `json:"id"`
	GoogleID  string    `json:"google_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	About     string    `json:"about"`
	Skills    string    `json:"skills"`
	Tier      Tier      `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUser(googleID, email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New().String(),
		GoogleID:  googleID,
		Email:     email,
		Name:      name,
		Tier:      TierFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
