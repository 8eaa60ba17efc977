package assistant

import (
	"errors"
	"fmt"

	"github.com/voicemd/voicemd/pkg/chat"
)

// Sentinel errors for submission validation.
var (
	// ErrNoInput is returned when neither text nor audio was submitted.
	ErrNoInput = errors.New("assistant: input required")

	// ErrBadPriorMessage is returned for malformed prior turns.
	ErrBadPriorMessage = errors.New("assistant: prior messages must have role user or assistant")
)

// Input is the submitted user input: exactly one of text or audio.
// The variant is decided once at the validation boundary and never
// re-inspected downstream of transcription.
type Input interface {
	isInput()
}

// TextInput is input typed directly by the user.
type TextInput string

func (TextInput) isInput() {}

// AudioInput is a recorded audio blob to transcribe.
type AudioInput struct {
	Filename string
	Data     []byte
}

func (AudioInput) isInput() {}

// ImageUpload is an optional image to include in the prompt.
type ImageUpload struct {
	MediaType string
	Data      []byte
}

// Submission is one parsed client request.
type Submission struct {
	Input Input
	Prior []chat.Message
	Image *ImageUpload
}

// Validate schema-checks the submission before any external call is made:
// input present, prior turns limited to user/assistant roles, and any
// image of a supported media type.
func (s *Submission) Validate() error {
	if s.Input == nil {
		return ErrNoInput
	}

	for i, msg := range s.Prior {
		if msg.Role != chat.RoleUser && msg.Role != chat.RoleAssistant {
			return fmt.Errorf("%w (message %d has role %q)", ErrBadPriorMessage, i, msg.Role)
		}
	}

	if s.Image != nil {
		if _, err := chat.NewAttachment(s.Image.Data, s.Image.MediaType); err != nil {
			return err
		}
	}

	return nil
}

// attachment converts the validated image upload for composition.
// Returns nil when no image was submitted.
func (s *Submission) attachment() *chat.Attachment {
	if s.Image == nil {
		return nil
	}
	// Media type was checked in Validate
	img, _ := chat.NewAttachment(s.Image.Data, s.Image.MediaType)
	return img
}
