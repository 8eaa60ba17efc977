package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/voicemd/voicemd/pkg/assistant"
	"github.com/voicemd/voicemd/pkg/chat"
	"github.com/voicemd/voicemd/pkg/hub"
	"github.com/voicemd/voicemd/pkg/tts"
)

// handleAssist runs the voice pipeline for one multipart submission and
// streams the spoken reply back as a WAV-wrapped audio body. Transcript
// and reply text travel in URL-encoded response headers.
func (s *Server) handleAssist(c *fiber.Ctx) error {
	sub, err := parseSubmission(c)
	if err != nil {
		s.logger.Debug("rejected submission", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	result, err := s.pipeline.Respond(c.UserContext(), sub)
	if err != nil {
		return s.sendPipelineError(c, err)
	}

	c.Set("Content-Type", "audio/wav")
	c.Set("X-Transcript", encodeHeader(result.Transcript))
	c.Set("X-Response", encodeHeader(result.Reply))

	header := tts.WAVHeader(result.Audio.Format(), tts.UnknownLength)
	return c.SendStream(newWAVStream(header, result.Audio))
}

// handleListCalls returns the full call log, newest first.
func (s *Server) handleListCalls(c *fiber.Ctx) error {
	records, err := s.store.List(c.UserContext())
	if err != nil {
		s.logger.Error("call log list failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Call log unavailable")
	}
	return c.JSON(records)
}

// handleHealth is the liveness endpoint.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleCallsWS streams call records to a dashboard client: the current
// log on connect, then each new record as it is appended.
func (s *Server) handleCallsWS(c *websocket.Conn) {
	if records, err := s.store.List(context.Background()); err == nil {
		_ = c.WriteJSON(records)
	}
	hub.NewClient(s.callHub, c).Run()
}

// sendPipelineError maps a pipeline failure to its HTTP status.
// Rate limits from any collaborator pass through as 429 so the browser
// can back off; the server itself never retries.
func (s *Server) sendPipelineError(c *fiber.Ctx, err error) error {
	if assistant.IsRateLimited(err) {
		s.logger.Warn("upstream rate limited", "error", err)
		return c.Status(fiber.StatusTooManyRequests).SendString("Rate limited")
	}

	switch assistant.StageOf(err) {
	case assistant.StageValidate:
		s.logger.Debug("invalid submission", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	case assistant.StageTranscribe:
		s.logger.Debug("transcription failed", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid audio")
	case assistant.StageComplete:
		s.logger.Error("completion failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Invalid response")
	case assistant.StageSynthesize:
		s.logger.Error("synthesis failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Voice synthesis failed")
	default:
		s.logger.Error("pipeline failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
	}
}

// parseSubmission maps the multipart form onto a Submission:
// `input` (text value or audio file, exactly one), repeated `message`
// JSON fields for prior turns in order, and an optional `image` file.
func parseSubmission(c *fiber.Ctx) (assistant.Submission, error) {
	var sub assistant.Submission

	form, err := c.MultipartForm()
	if err != nil {
		return sub, fmt.Errorf("parse multipart form: %w", err)
	}

	inputValues := form.Value["input"]
	inputFiles := form.File["input"]
	switch {
	case len(inputValues)+len(inputFiles) != 1:
		return sub, fmt.Errorf("exactly one input field required, got %d", len(inputValues)+len(inputFiles))
	case len(inputValues) == 1:
		sub.Input = assistant.TextInput(inputValues[0])
	default:
		data, err := readFormFile(inputFiles[0])
		if err != nil {
			return sub, fmt.Errorf("read audio: %w", err)
		}
		sub.Input = assistant.AudioInput{
			Filename: inputFiles[0].Filename,
			Data:     data,
		}
	}

	for i, raw := range form.Value["message"] {
		var msg chat.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return sub, fmt.Errorf("decode message %d: %w", i, err)
		}
		sub.Prior = append(sub.Prior, msg)
	}

	if files := form.File["image"]; len(files) > 0 {
		data, err := readFormFile(files[0])
		if err != nil {
			return sub, fmt.Errorf("read image: %w", err)
		}
		sub.Image = &assistant.ImageUpload{
			MediaType: files[0].Header.Get("Content-Type"),
			Data:      data,
		}
	}

	return sub, nil
}

// encodeHeader percent-encodes text for the X-Transcript/X-Response
// headers. The browser decodes these with decodeURIComponent, which
// leaves '+' alone, so spaces must travel as %20 rather than the
// query-escape form.
func encodeHeader(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// readFormFile reads an uploaded file into memory.
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// wavStream prefixes a WAV header onto a synthesized audio stream and
// adapts it to io.ReadCloser for the response body. fasthttp closes it
// once the body has been sent.
type wavStream struct {
	header []byte
	stream tts.AudioStream
	chunk  []byte
}

func newWAVStream(header []byte, stream tts.AudioStream) *wavStream {
	return &wavStream{header: header, stream: stream}
}

// Read emits the header, then forwards audio chunks as they arrive.
func (w *wavStream) Read(p []byte) (int, error) {
	if len(w.header) > 0 {
		n := copy(p, w.header)
		w.header = w.header[n:]
		return n, nil
	}
	for len(w.chunk) == 0 {
		chunk, err := w.stream.Read()
		if err != nil {
			return 0, err
		}
		if chunk == nil {
			return 0, io.EOF
		}
		w.chunk = chunk
	}
	n := copy(p, w.chunk)
	w.chunk = w.chunk[n:]
	return n, nil
}

// Close releases the underlying audio stream.
func (w *wavStream) Close() error {
	return w.stream.Close()
}
