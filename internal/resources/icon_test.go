package resources

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconFor(t *testing.T) {
	ico, err := iconFor("windows")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 0}, ico[:4], "ICO header")

	png, err := iconFor("linux")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "PNG signature")
}

func TestLoadIcon(t *testing.T) {
	t.Run("empty path uses embedded icon", func(t *testing.T) {
		data, err := LoadIcon("")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("custom icon", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tray.png")
		require.NoError(t, os.WriteFile(path, []byte("icon-bytes"), 0o644))

		data, err := LoadIcon(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("icon-bytes"), data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadIcon(filepath.Join(t.TempDir(), "nope.png"))
		assert.ErrorIs(t, err, ErrIconNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.png")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := LoadIcon(path)
		assert.ErrorIs(t, err, ErrIconNotFound)
	})
}
