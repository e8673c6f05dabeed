package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	fields := map[string]string{
		"Nombre":  "Ana",
		"Celular": "111",
		"email":   "a@x.com",
	}

	t.Run("replaces every placeholder", func(t *testing.T) {
		out, err := Render("Hola {Nombre}, tel: {Celular} ({Nombre})", fields)
		require.NoError(t, err)
		assert.Equal(t, "Hola Ana, tel: 111 (Ana)", out)
	})

	t.Run("leaves no placeholder tokens behind", func(t *testing.T) {
		out, err := Render("{Nombre} {Celular} {email}", fields)
		require.NoError(t, err)
		assert.NotContains(t, out, "{")
		assert.NotContains(t, out, "}")
	})

	t.Run("returns pattern unchanged when it has no placeholders", func(t *testing.T) {
		out, err := Render("sin variables", fields)
		require.NoError(t, err)
		assert.Equal(t, "sin variables", out)
	})

	t.Run("fails naming the unknown field", func(t *testing.T) {
		_, err := Render("Hola {Apellido}", fields)
		require.Error(t, err)

		var missing *MissingFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Apellido", missing.Field)
		assert.Contains(t, err.Error(), "Apellido")
	})

	t.Run("does not substitute empty string for unknown fields", func(t *testing.T) {
		out, err := Render("x{Desconocido}y", fields)
		assert.Error(t, err)
		assert.Empty(t, out)
	})

	t.Run("keeps an unclosed brace literally", func(t *testing.T) {
		out, err := Render("llaves { sueltas", fields)
		require.NoError(t, err)
		assert.Equal(t, "llaves { sueltas", out)
	})

	t.Run("renders empty field values", func(t *testing.T) {
		out, err := Render("[{Vacio}]", map[string]string{"Vacio": ""})
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
	})

	t.Run("is deterministic across repeated calls", func(t *testing.T) {
		first, err := Render("Hola {Nombre}", fields)
		require.NoError(t, err)
		for range 5 {
			again, err := Render("Hola {Nombre}", fields)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("handles long patterns", func(t *testing.T) {
		pattern := strings.Repeat("{Nombre},", 200)
		out, err := Render(pattern, fields)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("Ana,", 200), out)
	})
}
