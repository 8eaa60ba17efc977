package assistant

import (
	"errors"
	"fmt"

	"github.com/voicemd/voicemd/pkg/llm"
	"github.com/voicemd/voicemd/pkg/stt"
	"github.com/voicemd/voicemd/pkg/tts"
)

// Stage identifies where in the pipeline a request failed.
type Stage string

const (
	// StageValidate covers schema checks before any external call.
	StageValidate Stage = "validate"

	// StageTranscribe covers the speech-to-text call.
	StageTranscribe Stage = "transcribe"

	// StageComplete covers the LLM completion call.
	StageComplete Stage = "complete"

	// StageSynthesize covers the text-to-speech call.
	StageSynthesize Stage = "synthesize"
)

// PipelineError wraps a failure with the stage it occurred in.
// The web layer maps stages to HTTP statuses: validate and transcribe
// failures are the client's problem (400), completion and synthesis
// failures are upstream problems (500), and rate limits pass through (429).
type PipelineError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("assistant: %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// StageOf returns the pipeline stage of err, or "" if err is not a
// PipelineError.
func StageOf(err error) Stage {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}

// IsRateLimited returns true if any collaborator rejected the request
// with HTTP 429.
func IsRateLimited(err error) bool {
	var sttErr *stt.APIError
	if errors.As(err, &sttErr) {
		return sttErr.IsRateLimited()
	}
	var llmErr *llm.APIError
	if errors.As(err, &llmErr) {
		return llmErr.IsRateLimited()
	}
	var ttsErr *tts.APIError
	if errors.As(err, &ttsErr) {
		return ttsErr.IsRateLimited()
	}
	return false
}
