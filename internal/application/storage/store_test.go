package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/infrastructure/persistence/memory"
	"bookforge-api/internal/infrastructure/persistence/sqlite"
	apperrors "bookforge-api/pkg/errors"
)

func newMemoryStore() (*DocumentStore, *memory.DocumentStore) {
	kv := memory.NewDocumentStore()
	return NewDocumentStore(kv), kv
}

func TestCurrentBookDefaultsWhenAbsent(t *testing.T) {
	s, _ := newMemoryStore()
	draft, found, err := s.CurrentBook(t.Context())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, entity.DefaultOutline(), draft.Outline)
}

func TestSaveWritesEnvelope(t *testing.T) {
	s, kv := newMemoryStore()
	draft := entity.NewBookDraft()
	draft.Idea = "tea"
	draft.Chapters = []entity.Chapter{entity.NewChapter("One", "some words")}
	require.NoError(t, s.SaveCurrentBook(t.Context(), draft))

	raw, found, err := kv.Get(t.Context(), DefaultNamespace, KeyCurrentBook)
	require.NoError(t, err)
	require.True(t, found)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.False(t, env.SavedAt.IsZero())
	assert.Contains(t, string(env.Data), `"status":"in_progress"`)
}

func TestExplicitStatusSurvivesReload(t *testing.T) {
	s, _ := newMemoryStore()
	draft := entity.NewBookDraft()
	draft.Chapters = []entity.Chapter{entity.NewChapter("One", "text")}
	require.NoError(t, draft.Chapters[0].Mark(entity.ChapterStatusCompleted))
	require.NoError(t, s.SaveCurrentBook(t.Context(), draft))

	_, err := s.UpdateCurrentBook(t.Context(), func(d *entity.BookDraft) error {
		d.Chapters[0].SetContent("text, edited")
		return nil
	})
	require.NoError(t, err)

	got, found, err := s.CurrentBook(t.Context())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entity.ChapterStatusCompleted, got.Chapters[0].Status)
}

func TestLegacyCurrentBookMigrates(t *testing.T) {
	s, kv := newMemoryStore()
	legacy := `{"idea":"tea","topic":"tea","audience":"all","genre":"x","language":"English",
		"outline":["a","b","c"],"chapters":[{"title":"One","content":"hello world"},{"title":"Two","content":""}]}`
	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyCurrentBook, []byte(legacy)))

	draft, found, err := s.CurrentBook(t.Context())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entity.ChapterStatusInProgress, draft.Chapters[0].Status)
	assert.Equal(t, 2, draft.Chapters[0].WordCount)
	assert.Equal(t, entity.ChapterStatusNotStarted, draft.Chapters[1].Status)
}

func TestLegacyMarketplaceBooksMigrate(t *testing.T) {
	s, kv := newMemoryStore()
	legacy := `[{"id":1700000000000,"title":"Mine","author":"Me","price":5,"category":"education"}]`
	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyMarketplaceBooks, []byte(legacy)))

	listings, err := s.MarketplaceBooks(t.Context())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].UserCreated)
	assert.NotNil(t, listings[0].Tags)
}

func TestInvalidStoredDocumentRejected(t *testing.T) {
	s, kv := newMemoryStore()
	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyBookDesign, []byte(`{"schemaVersion":2,"data":{"title":"","author":"x"}}`)))
	_, _, err := s.BookDesign(t.Context())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyBookDesign, []byte(`not json`)))
	_, _, err = s.BookDesign(t.Context())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyBookDesign, []byte(`{"schemaVersion":9,"data":{}}`)))
	_, _, err = s.BookDesign(t.Context())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	s, _ := newMemoryStore()
	err := s.SaveBookDesign(t.Context(), &entity.BookDesign{Title: "", Author: "me"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = s.SaveGeneratedCoverDesign(t.Context(), &entity.CoverDesign{Style: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateCurrentBookRequiresDraft(t *testing.T) {
	s, _ := newMemoryStore()
	_, err := s.UpdateCurrentBook(t.Context(), func(*entity.BookDraft) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
}

func TestNamespacesAreIsolated(t *testing.T) {
	s, _ := newMemoryStore()
	alice := WithNamespace(t.Context(), "alice")
	design := entity.DefaultBookDesign(nil)
	design.Title = "Alice's Book"
	require.NoError(t, s.SaveBookDesign(alice, design))

	got, found, err := s.BookDesign(WithNamespace(t.Context(), "bob"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, entity.DefaultBookTitle, got.Title)

	got, found, err = s.BookDesign(alice)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Alice's Book", got.Title)
}

func TestAppendMarketplaceBookConcurrent(t *testing.T) {
	s, _ := newMemoryStore()
	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := s.AppendMarketplaceBook(context.Background(), entity.Listing{
				ID: id, Title: "t", Author: "a", Category: "education", Tags: []string{},
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	listings, err := s.MarketplaceBooks(t.Context())
	require.NoError(t, err)
	assert.Len(t, listings, 20)
	assert.Empty(t, s.locks)
}

func TestKeyLocksReleasedAfterWrites(t *testing.T) {
	s, _ := newMemoryStore()
	for i := 0; i < 50; i++ {
		ctx := WithNamespace(t.Context(), fmt.Sprintf("profile-%d", i))
		require.NoError(t, s.SaveBookDesign(ctx, entity.DefaultBookDesign(nil)))
	}

	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	assert.Empty(t, s.locks)
}

func TestCustomMigrationRuns(t *testing.T) {
	s, kv := newMemoryStore()
	s.Register(KeyGeneratedCoverDesign, 1, func(data json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"imagePrompt":"upgraded"}`), nil
	})
	require.NoError(t, kv.Set(t.Context(), DefaultNamespace, KeyGeneratedCoverDesign, []byte(`{"prompt":"old"}`)))

	cover, found, err := s.GeneratedCoverDesign(t.Context())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "upgraded", cover.ImagePrompt)
}

func TestStoreOnSQLite(t *testing.T) {
	client, err := sqlite.Open(&config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "docs.db")})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate(t.Context()))

	s := NewDocumentStore(sqlite.NewDocumentRepository(client))
	require.NoError(t, s.HealthCheck(t.Context()))

	cover := &entity.CoverDesign{ImagePrompt: "lighthouse", Style: "classic"}
	require.NoError(t, s.SaveGeneratedCoverDesign(t.Context(), cover))

	got, found, err := s.GeneratedCoverDesign(t.Context())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cover, got)
}
