package chat_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/voicemd/voicemd/pkg/chat"
)

func TestCompose(t *testing.T) {
	t.Run("text only with no prior turns", func(t *testing.T) {
		messages := chat.Compose(nil, "Hello", nil)

		if len(messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(messages))
		}
		if messages[0].Role != chat.RoleSystem {
			t.Errorf("expected system role first, got %s", messages[0].Role)
		}
		if messages[0].Content != chat.SystemPrompt {
			t.Error("expected system prompt content")
		}
		if messages[1].Role != chat.RoleUser {
			t.Errorf("expected user role last, got %s", messages[1].Role)
		}
		if messages[1].Content != "Hello" {
			t.Errorf("expected transcript content, got %q", messages[1].Content)
		}
	})

	t.Run("prior turns preserved in order", func(t *testing.T) {
		prior := []chat.Message{
			{Role: chat.RoleAssistant, Content: "Hi"},
			{Role: chat.RoleUser, Content: "My arm hurts"},
			{Role: chat.RoleAssistant, Content: "Since when?"},
		}

		messages := chat.Compose(prior, "What is this rash?", nil)

		if len(messages) != 5 {
			t.Fatalf("expected 5 messages, got %d", len(messages))
		}
		for i, want := range prior {
			got := messages[i+1]
			if got.Role != want.Role || got.Content != want.Content {
				t.Errorf("prior message %d changed: got %+v, want %+v", i, got, want)
			}
		}
		last := messages[4]
		if last.Role != chat.RoleUser || last.Content != "What is this rash?" {
			t.Errorf("unexpected final message: %+v", last)
		}
	})

	t.Run("image adds a two-part user message", func(t *testing.T) {
		img, err := chat.NewAttachment([]byte{0xFF, 0xD8}, "image/jpeg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		messages := chat.Compose(nil, "What is this rash?", img)

		if len(messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(messages))
		}

		last := messages[2]
		if last.Role != chat.RoleUser {
			t.Errorf("expected user role, got %s", last.Role)
		}
		if len(last.Parts) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(last.Parts))
		}
		if last.Parts[0].Type != chat.PartText || last.Parts[0].Text != "What is this rash?" {
			t.Errorf("unexpected text part: %+v", last.Parts[0])
		}
		if last.Parts[1].Type != chat.PartImageURL {
			t.Errorf("unexpected part type: %s", last.Parts[1].Type)
		}
		if last.Parts[1].ImageURL == nil || last.Parts[1].ImageURL.URL != img.DataURL() {
			t.Error("image part does not reference the encoded payload")
		}
	})

	t.Run("compose does not mutate prior slice", func(t *testing.T) {
		prior := []chat.Message{{Role: chat.RoleUser, Content: "one"}}
		chat.Compose(prior, "two", nil)
		if prior[0].Content != "one" || len(prior) != 1 {
			t.Error("prior slice was mutated")
		}
	})
}

func TestMessageMarshalJSON(t *testing.T) {
	t.Run("plain message encodes string content", func(t *testing.T) {
		data, err := json.Marshal(chat.Message{Role: chat.RoleUser, Content: "hi"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"role":"user","content":"hi"}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("multimodal message encodes part array", func(t *testing.T) {
		msg := chat.Message{
			Role: chat.RoleUser,
			Parts: []chat.Part{
				{Type: chat.PartText, Text: "look"},
				{Type: chat.PartImageURL, ImageURL: &chat.ImageURL{URL: "data:image/png;base64,AA=="}},
			},
		}
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Role    string `json:"role"`
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL *struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(decoded.Content) != 2 {
			t.Fatalf("expected 2 content parts, got %d", len(decoded.Content))
		}
		if decoded.Content[0].Text != "look" {
			t.Errorf("unexpected text part: %+v", decoded.Content[0])
		}
		if decoded.Content[1].ImageURL == nil || decoded.Content[1].ImageURL.URL == "" {
			t.Error("expected image_url part")
		}
	})
}

func TestNewAttachment(t *testing.T) {
	t.Run("supported types", func(t *testing.T) {
		for _, mt := range []string{"image/jpeg", "image/png", "image/webp", "image/gif"} {
			if _, err := chat.NewAttachment([]byte{1}, mt); err != nil {
				t.Errorf("expected %s to be supported: %v", mt, err)
			}
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := chat.NewAttachment([]byte{1}, "application/pdf")
		if !errors.Is(err, chat.ErrUnsupportedImage) {
			t.Errorf("expected ErrUnsupportedImage, got %v", err)
		}
	})

	t.Run("data URL carries media type and base64 payload", func(t *testing.T) {
		img, err := chat.NewAttachment([]byte("abc"), "image/png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		url := img.DataURL()
		if !strings.HasPrefix(url, "data:image/png;base64,") {
			t.Errorf("unexpected prefix: %s", url)
		}
		if !strings.HasSuffix(url, "YWJj") {
			t.Errorf("unexpected payload: %s", url)
		}
	})
}

func TestRoleValid(t *testing.T) {
	for _, r := range []chat.Role{chat.RoleSystem, chat.RoleUser, chat.RoleAssistant} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if chat.Role("tool").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
