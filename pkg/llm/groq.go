package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/voicemd/voicemd/pkg/chat"
)

const (
	groqBaseURL  = "https://api.groq.com/openai/v1"
	providerGroq = "groq"
)

// Groq completion models.
const (
	// ModelLlama4Scout is a fast multimodal model that accepts inline images.
	ModelLlama4Scout = "meta-llama/llama-4-scout-17b-16e-instruct"

	// ModelLlama33Versatile is a larger text-only model.
	ModelLlama33Versatile = "llama-3.3-70b-versatile"
)

// Groq implements Completer for Groq's chat completions API.
type Groq struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewGroq creates a new Groq completion client.
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
		logger:  cfg.Logger.With("component", "llm.groq"),
		baseURL: baseURL,
	}, nil
}

// completionRequest is the chat completions request body.
type completionRequest struct {
	Model               string         `json:"model"`
	Messages            []chat.Message `json:"messages"`
	Temperature         float64        `json:"temperature"`
	TopP                float64        `json:"top_p"`
	MaxCompletionTokens int            `json:"max_completion_tokens"`
	Stream              bool           `json:"stream"`
}

// completionResponse is the subset of the response we consume.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the composed conversation and returns the reply text.
// A response with no choices or empty content yields ErrNoCompletion.
func (g *Groq) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	start := time.Now()

	payload := completionRequest{
		Model:               g.config.Model,
		Messages:            messages,
		Temperature:         g.config.Temperature,
		TopP:                g.config.TopP,
		MaxCompletionTokens: g.config.MaxTokens,
		Stream:              false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm [%s]: marshal payload: %w", providerGroq, err)
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm [%s]: create request: %w", providerGroq, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm [%s]: request: %w", providerGroq, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", g.parseError(resp)
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("llm [%s]: decode response: %w", providerGroq, err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", ErrNoCompletion
	}

	reply := result.Choices[0].Message.Content

	g.logger.Debug("completed conversation",
		"messages", len(messages),
		"reply_chars", len(reply),
		"latency_ms", time.Since(start).Milliseconds(),
		"model", g.config.Model,
	)

	return reply, nil
}

// parseError reads and parses an error response.
func (g *Groq) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		Provider:   providerGroq,
	}
}

// Verify Groq implements Completer at compile time.
var _ Completer = (*Groq)(nil)
