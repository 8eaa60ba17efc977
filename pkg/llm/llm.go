// Package llm provides chat completion clients.
//
// The bundled Groq client speaks the OpenAI-compatible chat completions
// API with fixed generation parameters; the Mock implementation supports
// testing without network access.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/voicemd/voicemd/pkg/chat"
)

// Completer generates a reply for a composed conversation.
type Completer interface {
	// Complete sends the messages and returns the first choice's text.
	Complete(ctx context.Context, messages []chat.Message) (string, error)
}

// Sentinel errors for the llm package.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("llm: API key required")

	// ErrNoCompletion is returned when the API produced no usable text.
	ErrNoCompletion = errors.New("llm: no completion returned")
)

// APIError represents an error response from a completion API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Code is the error code from the API (if provided).
	Code string

	// Provider identifies which service returned the error.
	Provider string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("llm [%s]: API error %d (%s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("llm [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
