package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		v, err := decodeDocument([]byte(`{"type": "Feature", "stac_version": "1.0.0"}`))
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Feature", m["type"])
	})

	t.Run("yaml", func(t *testing.T) {
		v, err := decodeDocument([]byte("type: Catalog\nstac_version: 1.0.0\n"))
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Catalog", m["type"])
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decodeDocument([]byte(`{"type": `))
		assert.Error(t, err)
	})
}

func TestHandleDetect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "item.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "Feature", "stac_version": "1.0.0"}`), 0600))

	assert.NoError(t, HandleDetect([]string{path}))
	assert.NoError(t, HandleDetect([]string{"--format", "json", path}))
}

func TestHandleDetect_Errors(t *testing.T) {
	assert.Error(t, HandleDetect(nil), "missing document argument")
	assert.Error(t, HandleDetect([]string{"--format", "xml", "a.json"}), "invalid format")
	assert.Error(t, HandleDetect([]string{filepath.Join(t.TempDir(), "absent.json")}), "unreadable document")

	path := filepath.Join(t.TempDir(), "no-version.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id": "x"}`), 0600))
	assert.Error(t, HandleDetect([]string{path}), "missing stac_version")
}
