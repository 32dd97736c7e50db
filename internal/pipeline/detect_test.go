package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	t.Run("pdf magic bytes", func(t *testing.T) {
		ft, err := DetectFileType([]byte("%PDF-1.7\n%âãÏÓ\n1 0 obj"))
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", ft.MIME)
		assert.Equal(t, "pdf", ft.Ext)
	})

	t.Run("plain text", func(t *testing.T) {
		ft, err := DetectFileType([]byte("just some ordinary words\n"))
		require.NoError(t, err)
		assert.Contains(t, ft.MIME, "text/plain")
		assert.Equal(t, "txt", ft.Ext)
	})

	t.Run("png magic bytes", func(t *testing.T) {
		ft, err := DetectFileType([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		require.NoError(t, err)
		assert.Equal(t, "image/png", ft.MIME)
		assert.Equal(t, "png", ft.Ext)
	})

	t.Run("empty buffer", func(t *testing.T) {
		_, err := DetectFileType(nil)
		assert.ErrorIs(t, err, ErrUnknownFileType)
	})

	t.Run("unidentifiable bytes", func(t *testing.T) {
		_, err := DetectFileType([]byte{0x00, 0x01, 0x02, 0x03, 0xff})
		assert.ErrorIs(t, err, ErrUnknownFileType)
	})
}
