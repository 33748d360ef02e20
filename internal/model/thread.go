package model

import "time"

// ThreadMessage is reconstructed on demand from the mailbox provider and
// never persisted.
type ThreadMessage struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Snippet  string    `json:"snippet"`
	Body     string    `json:"body"`
	Date     time.Time `json:"date"`
	IsFromMe bool      `json:"is_from_me"`
}

// ReplyStats counts the messages that followed the original outbound
// email in its thread, split by sender.
type ReplyStats struct {
	Replies   int `json:"replies"`    // messages from the recipient
	FollowUps int `json:"follow_ups"` // further messages from the connected mailbox
}
