package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
)

func TestSaveWritesFileUnderPublicPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")
	s := NewCoverStore(config.ImageConfig{OutputDir: dir, PublicPath: "/static/covers"})

	url, err := s.Save(t.Context(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/covers/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".img", extensionFor("application/x-unknown-thing"))
}
