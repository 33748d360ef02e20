package service

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist
	// or belongs to a different user.
	ErrNotFound = errors.New("not found")
	// ErrNoMailbox is returned when an operation needs a connected
	// mailbox and the user has none.
	ErrNoMailbox = errors.New("no mailbox connected")
	// ErrReauthRequired means the stored mailbox credentials are gone
	// or were rejected and the user must reconnect.
	ErrReauthRequired = errors.New("mailbox reauthorization required")
	// ErrAlreadySent guards against dispatching the same draft twice.
	ErrAlreadySent = errors.New("draft already sent")
	// ErrRateLimited means the user exhausted their generation quota.
	ErrRateLimited = errors.New("generation rate limit exceeded")
	// ErrInvalidInput covers validation failures on request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotSent means the operation needs a draft that was dispatched.
	ErrNotSent = errors.New("draft has not been sent")
)
