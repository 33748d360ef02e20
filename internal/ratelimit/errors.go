package ratelimit

import "errors"

var (
	// ErrInvalidConfig indicates the bucket configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)
