package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFileIgnoresMissing(t *testing.T) {
	assert.NoError(t, DeleteFile(filepath.Join(t.TempDir(), "nope.png")))
}

func TestDeleteFileRemovesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	require.NoError(t, DeleteFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestImageDiskPath(t *testing.T) {
	got := ImageDiskPath("/srv/uploads", "/uploads/products/abc_cover.png")
	assert.Equal(t, filepath.Join("/srv/uploads", "products", "abc_cover.png"), got)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_cover.png", SanitizeFilename("my cover.png"))
	assert.Equal(t, "evil.png", SanitizeFilename("../../evil.png"))
}
