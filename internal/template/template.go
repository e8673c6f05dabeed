// Package template renders message patterns against a row's named fields.
// Placeholders use the `{FieldName}` form the uploaded sheets declare as
// column headers.
package template

import (
	"fmt"
	"strings"
)

// MissingFieldError is returned when a pattern references a field that the
// row does not declare. Rendering never substitutes an empty string for an
// unknown field; a broken pattern is a configuration error.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("template references unknown field %q", e.Field)
}

// Render replaces every `{Key}` occurrence in pattern with fields[Key].
// A `{` without a matching `}` is kept literally. Render has no side effects
// and is safe to call repeatedly for previews and for each dispatch row.
func Render(pattern string, fields map[string]string) (string, error) {
	var b strings.Builder

	for {
		open := strings.IndexByte(pattern, '{')
		if open < 0 {
			b.WriteString(pattern)
			break
		}

		end := strings.IndexByte(pattern[open:], '}')
		if end < 0 {
			// No closing brace anywhere after this point.
			b.WriteString(pattern)
			break
		}

		b.WriteString(pattern[:open])

		key := pattern[open+1 : open+end]
		value, ok := fields[key]
		if !ok {
			return "", &MissingFieldError{Field: key}
		}
		b.WriteString(value)

		pattern = pattern[open+end+1:]
	}

	return b.String(), nil
}
