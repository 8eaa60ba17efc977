// Package assistant sequences the voice pipeline for one request:
// transcribe, compose, complete, synthesize, log.
package assistant

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/voicemd/voicemd/pkg/calllog"
	"github.com/voicemd/voicemd/pkg/chat"
	"github.com/voicemd/voicemd/pkg/llm"
	"github.com/voicemd/voicemd/pkg/stt"
	"github.com/voicemd/voicemd/pkg/tts"
)

// Result is a successful pipeline run.
type Result struct {
	// Transcript is the resolved text form of the user's input.
	Transcript string

	// Reply is the completion's text, the source of the spoken audio.
	Reply string

	// Audio streams the synthesized speech. The caller owns it and
	// must Close it after forwarding.
	Audio tts.AudioStream

	// Duration is the elapsed time from completion start to synthesis end.
	Duration time.Duration

	// Record is the call log entry appended for this run.
	Record calllog.Record
}

// Pipeline orchestrates one request through the external collaborators.
// Each step runs exactly once; there are no automatic retries.
type Pipeline struct {
	transcriber stt.Transcriber
	completer   llm.Completer
	synthesizer tts.Provider
	store       calllog.Store
	logger      *slog.Logger

	// onRecord, when set, observes each appended record (used by the
	// web layer to push live updates to dashboard sockets).
	onRecord func(calllog.Record)
}

// New wires a Pipeline from its collaborators.
func New(transcriber stt.Transcriber, completer llm.Completer, synthesizer tts.Provider, store calllog.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		transcriber: transcriber,
		completer:   completer,
		synthesizer: synthesizer,
		store:       store,
		logger:      logger.With("component", "assistant"),
	}
}

// OnRecord sets the observer invoked after each record is appended.
func (p *Pipeline) OnRecord(fn func(calllog.Record)) {
	p.onRecord = fn
}

// Respond runs the full pipeline for one submission.
//
// Order is fixed: validate, transcribe, compose, complete, synthesize,
// append record, return. Validation and transcription failures abort
// before any further external call; no record is appended on any failure.
func (p *Pipeline) Respond(ctx context.Context, sub Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, &PipelineError{Stage: StageValidate, Err: err}
	}

	transcript, err := p.transcript(ctx, sub.Input)
	if err != nil {
		return nil, &PipelineError{Stage: StageTranscribe, Err: err}
	}

	messages := chat.Compose(sub.Prior, transcript, sub.attachment())

	start := time.Now()

	reply, err := p.completer.Complete(ctx, messages)
	if err != nil {
		return nil, &PipelineError{Stage: StageComplete, Err: err}
	}

	audio, err := p.synthesizer.Stream(ctx, reply)
	if err != nil {
		return nil, &PipelineError{Stage: StageSynthesize, Err: err}
	}

	elapsed := time.Since(start)

	rec := calllog.NewRecord(transcript, elapsed)
	if err := p.store.Append(ctx, rec); err != nil {
		// The spoken reply is already in hand; losing one log entry is
		// preferable to failing the whole call.
		p.logger.Warn("call log append failed", "error", err)
	} else if p.onRecord != nil {
		p.onRecord(rec)
	}

	p.logger.Info("pipeline completed",
		"transcript_chars", len(transcript),
		"reply_chars", len(reply),
		"duration_ms", elapsed.Milliseconds(),
	)

	return &Result{
		Transcript: transcript,
		Reply:      reply,
		Audio:      audio,
		Duration:   elapsed,
		Record:     rec,
	}, nil
}

// transcript resolves the input to text. Text input never touches the
// transcription service; audio input goes through it once.
func (p *Pipeline) transcript(ctx context.Context, input Input) (string, error) {
	switch in := input.(type) {
	case TextInput:
		// Typed text is forwarded verbatim; only audio transcripts are
		// trimmed, and that happens inside the transcriber.
		if in == "" {
			return "", stt.ErrEmptyTranscript
		}
		return string(in), nil
	case AudioInput:
		return p.transcriber.Transcribe(ctx, bytes.NewReader(in.Data), in.Filename)
	default:
		return "", ErrNoInput
	}
}
