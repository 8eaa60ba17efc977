package chat

// SystemPrompt is the fixed persona instruction for the assistant.
const SystemPrompt = `You have to act as a professional doctor, I know you are not but this is for learning purpose.
            What's in this image?. Do you find anything wrong with it medically?
            If you make a differential, suggest some remedies for them. Do not add any numbers or special characters in
            your response. Your response should be in one long paragraph. Also always answer as if you are answering to a real person.
            Do not say 'In the image I see' but say 'With what I see, I think you have ....'
            Don't respond as an AI model in markdown, your answer should mimic that of an actual doctor not an AI bot,
            Keep your answer concise. No preamble, start your answer right away please`

// Compose builds the ordered message list for the completion API:
// the system instruction, the prior turns verbatim, the new user turn,
// and, when an image is attached, a final two-part user message pairing
// the transcript with the inline image.
//
// Compose is pure: it never reorders, mutates, or deduplicates prior turns.
func Compose(prior []Message, transcript string, img *Attachment) []Message {
	messages := make([]Message, 0, len(prior)+3)
	messages = append(messages, Message{Role: RoleSystem, Content: SystemPrompt})
	messages = append(messages, prior...)
	messages = append(messages, Message{Role: RoleUser, Content: transcript})

	if img != nil {
		messages = append(messages, Message{
			Role: RoleUser,
			Parts: []Part{
				{Type: PartText, Text: transcript},
				{Type: PartImageURL, ImageURL: &ImageURL{URL: img.DataURL()}},
			},
		})
	}

	return messages
}
