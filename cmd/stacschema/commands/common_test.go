package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(format))
	}
	for _, format := range []string{"", "xml", "TEXT", "Json"} {
		assert.Error(t, ValidateOutputFormat(format), "format %q should be rejected", format)
	}
}

func TestOutputStructured(t *testing.T) {
	data := map[string]any{"valid": true, "error_count": 0}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatJSON))
		assert.Contains(t, buf.String(), `"valid": true`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, OutputStructured(&buf, data, FormatYAML))
		assert.Contains(t, buf.String(), "valid: true")
	})

	t.Run("text is not structured", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, OutputStructured(&buf, data, FormatText))
	})
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://example.com/item.json"))
	assert.True(t, isURL("http://example.com/item.json"))
	assert.False(t, isURL("item.json"))
	assert.False(t, isURL("/abs/path/item.json"))
	assert.False(t, isURL("-"))
}
