package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	groqBaseURL  = "https://api.groq.com/openai/v1"
	providerGroq = "groq"
)

// Groq transcription models.
const (
	// ModelWhisperLargeV3 is the highest accuracy hosted Whisper model.
	ModelWhisperLargeV3 = "whisper-large-v3"

	// ModelWhisperLargeV3Turbo trades some accuracy for speed.
	ModelWhisperLargeV3Turbo = "whisper-large-v3-turbo"
)

// Groq implements Transcriber for Groq's hosted Whisper API.
type Groq struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGroq creates a new Groq transcription client.
func NewGroq(opts ...Option) (*Groq, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqBaseURL
	}

	return &Groq{
		config:  cfg,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger.With("component", "stt.groq"),
		baseURL: baseURL,
	}, nil
}

// Transcribe submits the audio as a multipart upload and returns the
// trimmed transcript. A blank transcription yields ErrEmptyTranscript.
func (g *Groq) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	start := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("stt [%s]: create form file: %w", providerGroq, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("stt [%s]: copy audio: %w", providerGroq, err)
	}
	if err := writer.WriteField("model", g.config.Model); err != nil {
		return "", fmt.Errorf("stt [%s]: write model field: %w", providerGroq, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("stt [%s]: close multipart writer: %w", providerGroq, err)
	}

	url := g.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("stt [%s]: create request: %w", providerGroq, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("stt [%s]: request: %w", providerGroq, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", g.parseError(resp)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("stt [%s]: decode response: %w", providerGroq, err)
	}

	transcript := strings.TrimSpace(result.Text)

	g.logger.Debug("transcribed audio",
		"chars", len(transcript),
		"latency_ms", time.Since(start).Milliseconds(),
		"model", g.config.Model,
	)

	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	return transcript, nil
}

// parseError reads and parses an error response.
func (g *Groq) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerGroq,
	}
}

// Verify Groq implements Transcriber at compile time.
var _ Transcriber = (*Groq)(nil)
