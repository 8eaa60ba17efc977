package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	cartesiaBaseURL  = "https://api.cartesia.ai"
	cartesiaVersion  = "2024-06-30"
	providerCartesia = "cartesia"
)

// Cartesia model IDs.
const (
	// ModelSonicEnglish is the low-latency English model.
	ModelSonicEnglish = "sonic-english"

	// ModelSonicMultilingual supports non-English text.
	ModelSonicMultilingual = "sonic-multilingual"
)

// VoiceBritishLady is the default voice identity.
const VoiceBritishLady = "79a125e8-cd45-4c13-8a67-188112f4dd22"

// Cartesia implements Provider for the Cartesia TTS API.
type Cartesia struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewCartesia creates a new Cartesia TTS provider.
func NewCartesia(opts ...Option) (*Cartesia, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cartesiaBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Cartesia{
		config:  cfg,
		client:  client,
		logger:  cfg.Logger.With("component", "tts.cartesia"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to audio, returning the complete audio buffer.
func (c *Cartesia) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	start := time.Now()

	resp, err := c.request(ctx, text, c.client)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerCartesia, fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"model", c.config.ModelID,
	)

	return &AudioResult{
		Audio:     audio,
		Format:    c.config.OutputFormat,
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Stream converts text to audio with streaming output.
// The response body is forwarded chunk by chunk without buffering.
func (c *Cartesia) Stream(ctx context.Context, text string) (AudioStream, error) {
	// Streaming reads can outlive the non-streaming timeout
	client := &http.Client{Timeout: c.config.StreamTimeout}

	resp, err := c.request(ctx, text, client)
	if err != nil {
		return nil, err
	}

	return &httpStream{
		body:   resp.Body,
		format: c.config.OutputFormat,
	}, nil
}

// Health checks API connectivity and API key validity.
func (c *Cartesia) Health(ctx context.Context) error {
	url := c.baseURL + "/voices"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return WrapError(providerCartesia, err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return WrapError(providerCartesia, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	return nil
}

// Close releases resources held by the provider.
func (c *Cartesia) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// request performs the synthesis POST and validates the status code.
// On error the response body is consumed and closed.
func (c *Cartesia) request(ctx context.Context, text string, client *http.Client) (*http.Response, error) {
	payload := c.buildPayload(text)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerCartesia, fmt.Errorf("marshal payload: %w", err))
	}

	url := c.baseURL + "/tts/bytes"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerCartesia, fmt.Errorf("create request: %w", err))
	}
	c.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, WrapError(providerCartesia, fmt.Errorf("request: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.parseError(resp)
	}

	return resp, nil
}

// buildPayload constructs the API request payload.
func (c *Cartesia) buildPayload(text string) map[string]interface{} {
	return map[string]interface{}{
		"model_id":   c.config.ModelID,
		"transcript": text,
		"voice": map[string]interface{}{
			"mode": "id",
			"id":   c.config.VoiceID,
		},
		"output_format": map[string]interface{}{
			"container":   "raw",
			"encoding":    string(c.config.OutputFormat.Encoding),
			"sample_rate": c.config.OutputFormat.SampleRate,
		},
	}
}

// setHeaders sets required HTTP headers.
func (c *Cartesia) setHeaders(req *http.Request) {
	req.Header.Set("X-API-Key", c.config.APIKey)
	req.Header.Set("Cartesia-Version", cartesiaVersion)
	req.Header.Set("Content-Type", "application/json")
}

// parseError reads and parses an error response.
func (c *Cartesia) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		message = errResp.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerCartesia,
	}
}

// httpStream wraps an HTTP response body as AudioStream.
type httpStream struct {
	body   io.ReadCloser
	format AudioFormat
	buf    [4096]byte
}

// Read returns the next audio chunk.
func (s *httpStream) Read() ([]byte, error) {
	n, err := s.body.Read(s.buf[:])
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		return chunk, nil
	}
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte{}, nil
}

// Close stops the stream.
func (s *httpStream) Close() error {
	return s.body.Close()
}

// Format returns the audio format.
func (s *httpStream) Format() AudioFormat {
	return s.format
}

// Verify Cartesia implements Provider at compile time.
var _ Provider = (*Cartesia)(nil)
