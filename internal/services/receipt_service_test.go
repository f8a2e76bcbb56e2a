package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSanitizeUploadCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"abc123", "abc123", true},
		{"../../etc/passwd", "....etcpasswd", true},
		{"a b/c\\d", "abcd", true},
		{"..", "", false},
		{"/.", "", false},
		{"%%%", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := SanitizeUploadCode(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestReceiptService_Find(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()

	writeFile(t, primary, "r1.jpg", "primary-jpg")
	writeFile(t, fallback, "r1.png", "fallback-png")
	writeFile(t, fallback, "r2.webp", "fallback-webp")
	writeFile(t, fallback, "anim.gif", "gif")
	writeFile(t, fallback, "raw.bin", "bin")
	require.NoError(t, os.Mkdir(filepath.Join(primary, "dir.png"), 0o755))

	service := NewReceiptService([]string{filepath.Join(primary, "missing"), primary, fallback}, nil)

	t.Run("first directory with a match wins", func(t *testing.T) {
		receipt, err := service.Find("r1")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", receipt.ContentType)
		assert.Equal(t, "primary-jpg", string(receipt.Data))
	})

	t.Run("falls through directories", func(t *testing.T) {
		receipt, err := service.Find("r2")
		require.NoError(t, err)
		assert.Equal(t, "image/webp", receipt.ContentType)
	})

	t.Run("explicit extension", func(t *testing.T) {
		receipt, err := service.Find("anim.gif")
		require.NoError(t, err)
		assert.Equal(t, "image/gif", receipt.ContentType)

		receipt, err = service.Find("raw.bin")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", receipt.ContentType)
	})

	t.Run("directories are not receipts", func(t *testing.T) {
		_, err := service.Find("dir")
		assert.ErrorIs(t, err, ErrReceiptNotFound)
	})

	t.Run("traversal is neutralized", func(t *testing.T) {
		_, err := service.Find("../" + filepath.Base(fallback) + "/r2")
		assert.ErrorIs(t, err, ErrReceiptNotFound)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := service.Find("nope")
		assert.ErrorIs(t, err, ErrReceiptNotFound)
	})
}
