// Package mail assembles transport-ready messages and talks to the mail
// provider's API on behalf of the authenticated user.
package mail

import (
	"mime"
	"path/filepath"
)

const fallbackMIMEType = "application/octet-stream"

// Attachment is a file sent with a message. It is read once when the user
// uploads it and shared read-only by every message of a bulk run; nothing
// in this package may consume or mutate Data.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// NewAttachment builds an Attachment, deriving the MIME type from the
// filename extension and falling back to application/octet-stream when the
// extension is unknown.
func NewAttachment(filename string, data []byte) Attachment {
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = fallbackMIMEType
	}
	return Attachment{
		Filename: filename,
		MIMEType: mimeType,
		Data:     data,
	}
}

// Envelope is one fully assembled outbound message. It is built per row
// during a bulk run and discarded after the send.
type Envelope struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Assemble builds an Envelope from rendered subject/body text and the
// batch's shared attachment set.
func Assemble(to, subject, body string, attachments []Attachment) Envelope {
	return Envelope{
		To:          to,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	}
}
