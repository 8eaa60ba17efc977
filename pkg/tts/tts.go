// Package tts provides a unified interface for text-to-speech providers.
//
// The bundled Cartesia provider synthesizes speech over HTTP and exposes
// the response body as a stream, so callers can forward audio to the
// browser without buffering the whole payload. The Mock implementation
// supports testing without network access.
//
// Example usage:
//
//	provider, _ := tts.NewCartesia(
//	    tts.WithAPIKey(os.Getenv("CARTESIA_API_KEY")),
//	)
//	defer provider.Close()
//
//	stream, _ := provider.Stream(ctx, "Hello world")
//	// read chunks until Read returns nil
package tts

import (
	"context"
	"time"
)

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio, returning the complete audio buffer.
	Synthesize(ctx context.Context, text string) (*AudioResult, error)

	// Stream converts text to audio with streaming output.
	// Audio chunks are returned as they become available.
	Stream(ctx context.Context, text string) (AudioStream, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioStream represents a streaming audio response.
// Callers should read until Read returns nil, then call Close.
type AudioStream interface {
	// Read returns the next audio chunk.
	// Returns nil when the stream is complete (not an error).
	Read() ([]byte, error)

	// Close stops the stream and releases resources.
	Close() error

	// Format returns the audio format metadata.
	Format() AudioFormat
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data in the specified format.
	Audio []byte

	// Format describes the audio encoding and sample rate.
	Format AudioFormat

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the time to first byte in milliseconds.
	LatencyMs int64
}

// AudioFormat describes the audio encoding parameters.
type AudioFormat struct {
	// Encoding specifies the sample encoding (e.g., pcm_f32le).
	Encoding Encoding

	// SampleRate in Hz (e.g., 24000, 44100).
	SampleRate int

	// Channels is 1 for mono, 2 for stereo.
	Channels int
}

// Encoding represents raw audio sample encodings.
// These match Cartesia output format options.
type Encoding string

const (
	// EncodingPCMF32LE is 32-bit little-endian IEEE float samples.
	EncodingPCMF32LE Encoding = "pcm_f32le"

	// EncodingPCMS16LE is 16-bit little-endian signed integer samples.
	EncodingPCMS16LE Encoding = "pcm_s16le"
)

// BitDepth returns the bits per sample for the encoding.
func (e Encoding) BitDepth() int {
	switch e {
	case EncodingPCMF32LE:
		return 32
	case EncodingPCMS16LE:
		return 16
	default:
		return 16
	}
}

// EstimateDuration estimates playback time for a raw audio byte count.
func (f AudioFormat) EstimateDuration(bytes int) time.Duration {
	bytesPerSample := f.Encoding.BitDepth() / 8
	channels := f.Channels
	if channels == 0 {
		channels = 1
	}
	if f.SampleRate == 0 || bytesPerSample == 0 {
		return 0
	}
	samples := bytes / (bytesPerSample * channels)
	seconds := float64(samples) / float64(f.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}
