package mail

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"
)

// previewSnippetLength caps the preview text shown in the inbox view.
const previewSnippetLength = 200

// Preview is a lightweight summary of one received message, parsed from its
// raw bytes.
type Preview struct {
	Subject         string
	From            string
	Snippet         string
	AttachmentNames []string
}

// ParsePreview decodes a raw RFC 822 message and extracts the subject,
// sender, a short text snippet and the attachment filenames.
func ParsePreview(raw []byte) (*Preview, error) {
	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	preview := &Preview{
		Subject: envelope.GetHeader("Subject"),
		From:    envelope.GetHeader("From"),
		Snippet: snippet(envelope.Text),
	}

	for _, part := range envelope.Attachments {
		preview.AttachmentNames = append(preview.AttachmentNames, part.FileName)
	}

	return preview, nil
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= previewSnippetLength {
		return text
	}
	return string(runes[:previewSnippetLength]) + "…"
}
