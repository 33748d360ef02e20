package ai

import "errors"

var (
	// ErrProviderUnavailable means the selected backend is not configured
	// (missing API key or unknown provider name). The user should pick a
	// different provider.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProvider covers transport and quota failures talking to a backend.
	// Retryable by re-triggering generation.
	ErrProvider = errors.New("provider request failed")

	// ErrUnparsable means every parser recovery strategy was exhausted.
	ErrUnparsable = errors.New("unparsable model response")
)
