package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreview(t *testing.T) {
	t.Run("extracts subject, snippet and attachment names", func(t *testing.T) {
		env := Assemble("a@x.com", "Reporte mensual", "Aquí está el reporte.", []Attachment{
			NewAttachment("reporte.pdf", []byte("pdf-bytes")),
		})
		raw := append([]byte("From: remitente@x.com\r\n"), Encode(env)...)

		preview, err := ParsePreview(raw)
		require.NoError(t, err)
		assert.Equal(t, "Reporte mensual", preview.Subject)
		assert.Equal(t, "remitente@x.com", preview.From)
		assert.Equal(t, "Aquí está el reporte.", preview.Snippet)
		assert.Equal(t, []string{"reporte.pdf"}, preview.AttachmentNames)
	})

	t.Run("truncates long bodies", func(t *testing.T) {
		body := strings.Repeat("palabra ", 100)
		raw := Encode(Assemble("a@x.com", "Largo", body, nil))

		preview, err := ParsePreview(raw)
		require.NoError(t, err)
		assert.LessOrEqual(t, len([]rune(preview.Snippet)), previewSnippetLength+1)
		assert.True(t, strings.HasSuffix(preview.Snippet, "…"))
	})
}
