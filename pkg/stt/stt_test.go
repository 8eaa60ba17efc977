package stt_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voicemd/voicemd/pkg/stt"
)

func TestNewGroq(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := stt.NewGroq()
		if !errors.Is(err, stt.ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("defaults to whisper-large-v3", func(t *testing.T) {
		cfg := stt.DefaultConfig()
		if cfg.Model != stt.ModelWhisperLargeV3 {
			t.Errorf("expected %s, got %s", stt.ModelWhisperLargeV3, cfg.Model)
		}
	})
}

func TestGroqTranscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("submits multipart upload and trims transcript", func(t *testing.T) {
		var gotAuth, gotModel, gotFile string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			gotModel = r.FormValue("model")
			if f, fh, err := r.FormFile("file"); err == nil {
				defer f.Close()
				gotFile = fh.Filename
				io.Copy(io.Discard, f)
			}
			w.Write([]byte(`{"text": "  What is this rash?  "}`))
		}))
		defer server.Close()

		client, err := stt.NewGroq(
			stt.WithAPIKey("test-key"),
			stt.WithBaseURL(server.URL),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		transcript, err := client.Transcribe(ctx, strings.NewReader("audio-bytes"), "input.webm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transcript != "What is this rash?" {
			t.Errorf("expected trimmed transcript, got %q", transcript)
		}
		if gotAuth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", gotAuth)
		}
		if gotModel != stt.ModelWhisperLargeV3 {
			t.Errorf("unexpected model field: %s", gotModel)
		}
		if gotFile != "input.webm" {
			t.Errorf("unexpected filename: %s", gotFile)
		}
	})

	t.Run("blank transcript is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text": "   "}`))
		}))
		defer server.Close()

		client, _ := stt.NewGroq(stt.WithAPIKey("k"), stt.WithBaseURL(server.URL))
		_, err := client.Transcribe(ctx, strings.NewReader("x"), "a.wav")
		if !errors.Is(err, stt.ErrEmptyTranscript) {
			t.Errorf("expected ErrEmptyTranscript, got %v", err)
		}
	})

	t.Run("API error carries status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
		}))
		defer server.Close()

		client, _ := stt.NewGroq(stt.WithAPIKey("k"), stt.WithBaseURL(server.URL))
		_, err := client.Transcribe(ctx, strings.NewReader("x"), "a.wav")

		var apiErr *stt.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if !apiErr.IsRateLimited() {
			t.Error("expected IsRateLimited true")
		}
		if apiErr.Message != "rate limit exceeded" {
			t.Errorf("unexpected message: %s", apiErr.Message)
		}
	})

	t.Run("server error is flagged", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, _ := stt.NewGroq(stt.WithAPIKey("k"), stt.WithBaseURL(server.URL))
		_, err := client.Transcribe(ctx, strings.NewReader("x"), "a.wav")

		var apiErr *stt.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if !apiErr.IsServerError() {
			t.Error("expected IsServerError true")
		}
	})
}

func TestMock(t *testing.T) {
	ctx := context.Background()

	t.Run("default transcript", func(t *testing.T) {
		mock := &stt.Mock{}
		got, err := mock.Transcribe(ctx, strings.NewReader("x"), "a.wav")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "mock transcript" {
			t.Errorf("unexpected transcript: %q", got)
		}
		if mock.CallCount() != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount())
		}
	})

	t.Run("custom func", func(t *testing.T) {
		mock := &stt.Mock{
			TranscribeFunc: func(ctx context.Context, audio io.Reader, filename string) (string, error) {
				return "", stt.ErrEmptyTranscript
			},
		}
		_, err := mock.Transcribe(ctx, strings.NewReader("x"), "a.wav")
		if !errors.Is(err, stt.ErrEmptyTranscript) {
			t.Errorf("expected ErrEmptyTranscript, got %v", err)
		}
	})
}
