// Package stt provides speech-to-text transcription clients.
//
// The package abstracts transcription services behind the Transcriber
// interface. The bundled Groq client submits audio to the hosted Whisper
// model; the Mock implementation supports testing without network access.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	// Transcribe submits the audio and returns the transcript with
	// surrounding whitespace removed. An empty transcription is an error.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Sentinel errors for the stt package.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("stt: API key required")

	// ErrEmptyTranscript is returned when the service recognized no speech.
	ErrEmptyTranscript = errors.New("stt: empty transcript")
)

// APIError represents an error response from a transcription API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Provider identifies which service returned the error.
	Provider string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("stt [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
