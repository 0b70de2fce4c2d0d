package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
)

func newTestRepo(t *testing.T) *DocumentRepository {
	t.Helper()
	client, err := Open(&config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "data", "docs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Migrate(t.Context()))
	return NewDocumentRepository(client)
}

func TestDocumentRepositoryUpsert(t *testing.T) {
	repo := newTestRepo(t)

	_, found, err := repo.Get(t.Context(), "default", "currentBook")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(t.Context(), "default", "currentBook", []byte(`{"v":1}`)))
	require.NoError(t, repo.Set(t.Context(), "default", "currentBook", []byte(`{"v":2}`)))

	val, found, err := repo.Get(t.Context(), "default", "currentBook")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"v":2}`, string(val))
}

func TestDocumentRepositoryNamespaces(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Set(t.Context(), "alice", "bookDesign", []byte(`{}`)))

	_, found, err := repo.Get(t.Context(), "bob", "bookDesign")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, repo.HealthCheck(t.Context()))
}

func TestMigrateIsIdempotent(t *testing.T) {
	client, err := Open(&config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "docs.db")})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate(t.Context()))
	require.NoError(t, client.Migrate(t.Context()))
}
