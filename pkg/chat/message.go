// Package chat defines conversation messages and assembles the prompt
// sent to the completion API.
//
// Messages are JSON-compatible with OpenAI-style chat APIs: content is a
// plain string for ordinary turns, or an array of typed parts for
// multimodal turns that carry an inline image.
package chat

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleSystem is the fixed persona instruction.
	RoleSystem Role = "system"
	// RoleUser is a message from the person talking to the assistant.
	RoleUser Role = "user"
	// RoleAssistant is a prior reply from the assistant.
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single conversation turn.
// When Parts is non-empty it takes the place of Content on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Parts   []Part `json:"-"`
}

// Part is one element of a multimodal message body.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by URL. Inline images use a data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// Part type identifiers.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// MarshalJSON emits content as a string, or as a part array for
// multimodal messages.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(struct {
			Role    Role   `json:"role"`
			Content []Part `json:"content"`
		}{m.Role, m.Parts})
	}
	return json.Marshal(struct {
		Role    Role   `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// ErrUnsupportedImage is returned for image types the prompt cannot embed.
var ErrUnsupportedImage = errors.New("chat: unsupported image type")

// supportedImageTypes are the media types the completion API accepts inline.
var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Attachment is an image ready to embed in a multimodal message.
type Attachment struct {
	MediaType string
	Data      []byte
}

// NewAttachment validates the media type and wraps the image bytes.
func NewAttachment(data []byte, mediaType string) (*Attachment, error) {
	if !supportedImageTypes[mediaType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, mediaType)
	}
	return &Attachment{MediaType: mediaType, Data: data}, nil
}

// DataURL returns the inline data URL form of the attachment.
func (a *Attachment) DataURL() string {
	return "data:" + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
