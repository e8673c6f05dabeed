package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts a table with all required columns", func(t *testing.T) {
		raw := [][]string{
			{"Nombre", "Celular", "email"},
			{"Ana", "111", "a@x.com"},
			{"Beto", "222", "b@x.com"},
		}

		rows, err := Validate(raw, MailNamesSchema)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Ana", rows[0].Name())
		assert.Equal(t, "222", rows[1].Phone())
		assert.Equal(t, "b@x.com", rows[1].Email())
	})

	t.Run("fails listing every missing column", func(t *testing.T) {
		raw := [][]string{
			{"Nombre"},
			{"Ana"},
		}

		_, err := Validate(raw, MailNamesSchema)
		require.Error(t, err)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"Celular", "email"}, schemaErr.Missing)
	})

	t.Run("column matching is case-sensitive", func(t *testing.T) {
		raw := [][]string{
			{"nombre", "celular", "Email"},
			{"Ana", "111", "a@x.com"},
		}

		_, err := Validate(raw, MailNamesSchema)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Len(t, schemaErr.Missing, 3)
	})

	t.Run("trims whitespace from every cell", func(t *testing.T) {
		raw := [][]string{
			{" Nombre ", "Celular", "email"},
			{"  Ana  ", " 111\t", " a@x.com "},
		}

		rows, err := Validate(raw, MailNamesSchema)
		require.NoError(t, err)
		assert.Equal(t, "Ana", rows[0].Name())
		assert.Equal(t, "111", rows[0].Phone())
		assert.Equal(t, "a@x.com", rows[0].Email())
	})

	t.Run("preserves source row order", func(t *testing.T) {
		raw := [][]string{
			{"Nombre", "Celular"},
			{"uno", "1"},
			{"dos", "2"},
			{"tres", "3"},
		}

		rows, err := Validate(raw, ChatSchema)
		require.NoError(t, err)
		names := []string{rows[0].Name(), rows[1].Name(), rows[2].Name()}
		assert.Equal(t, []string{"uno", "dos", "tres"}, names)
	})

	t.Run("accepts a header with zero data rows", func(t *testing.T) {
		raw := [][]string{{"email", "asunto", "mensaje"}}

		rows, err := Validate(raw, MailColumnsSchema)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("rejects an entirely empty table", func(t *testing.T) {
		_, err := Validate(nil, ChatSchema)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, ChatSchema, schemaErr.Missing)
	})

	t.Run("keeps extra columns as template fields", func(t *testing.T) {
		raw := [][]string{
			{"Nombre", "Celular", "email", "Empresa"},
			{"Ana", "111", "a@x.com", "ACME"},
		}

		rows, err := Validate(raw, MailNamesSchema)
		require.NoError(t, err)
		assert.Equal(t, "ACME", rows[0].Get("Empresa"))
	})

	t.Run("pads short rows with empty cells", func(t *testing.T) {
		raw := [][]string{
			{"Nombre", "Celular", "email"},
			{"Ana"},
		}

		rows, err := Validate(raw, MailNamesSchema)
		require.NoError(t, err)
		assert.Equal(t, "Ana", rows[0].Name())
		assert.Equal(t, "", rows[0].Phone())
		assert.Equal(t, "", rows[0].Email())
	})
}

func TestColumns(t *testing.T) {
	assert.Nil(t, Columns(nil))
	assert.Equal(t, []string{"a", "b"}, Columns([][]string{{" a", "b "}}))
}
