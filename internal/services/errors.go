package services

import "errors"

// ValidationError is a caller-side input failure. It never mutates the session.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNoMessage is the client-facing text for a missing or blank chat message.
const ErrNoMessage = "No message provided"

// ProviderError wraps any failure of the model provider call, including timeouts.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrMissingAPIKey is returned by every call when no Gemini credential was configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")
