package mail

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"
)

// base64LineLength is the RFC 2045 maximum encoded line length.
const base64LineLength = 76

// Encode serializes an Envelope into the raw RFC 822 bytes the provider API
// accepts. Messages without attachments are a single text/plain part; with
// attachments the result is multipart/mixed with one base64 part per file.
// Encoding is deterministic (the boundary is derived from the content, not
// random) and never touches the attachment data beyond reading it, so the
// same envelope encodes to identical bytes on every call.
func Encode(e Envelope) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("To: %s\r\n", sanitizeAddress(e.To)))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeSubject(e.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(e.Attachments) == 0 {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(e.Body)
		return []byte(b.String())
	}

	boundary := boundaryFor(e)

	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	// Text part first.
	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.Body)
	b.WriteString("\r\n")

	for _, attachment := range e.Attachments {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString(fmt.Sprintf("Content-Type: %s; name=%q\r\n", attachment.MIMEType, attachment.Filename))
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", attachment.Filename))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString("\r\n")
		writeBase64(&b, attachment.Data)
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

// encodeSubject applies RFC 2047 encoding so non-ASCII subjects survive
// transport. Control characters end up encoded too, so a crafted subject
// cannot split the header.
func encodeSubject(subject string) string {
	return mime.QEncoding.Encode("utf-8", subject)
}

// sanitizeAddress drops control characters from the recipient. Spreadsheet
// cells may legally contain internal newlines; written verbatim they would
// smuggle extra headers (e.g. a Bcc) into every message of a run.
func sanitizeAddress(to string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f {
			return -1
		}
		return r
	}, to)
}

// boundaryFor derives the multipart boundary from the envelope content.
func boundaryFor(e Envelope) string {
	h := sha256.New()
	_, _ = io.WriteString(h, e.To)
	_, _ = io.WriteString(h, e.Subject)
	_, _ = io.WriteString(h, e.Body)
	for _, attachment := range e.Attachments {
		_, _ = io.WriteString(h, attachment.Filename)
		h.Write(attachment.Data)
	}
	return fmt.Sprintf("part_%x", h.Sum(nil)[:12])
}

// writeBase64 writes data base64-encoded in 76-character lines.
func writeBase64(b *strings.Builder, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > base64LineLength {
		b.WriteString(encoded[:base64LineLength])
		b.WriteString("\r\n")
		encoded = encoded[base64LineLength:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
}
