package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedStatus(t *testing.T) {
	assert.Equal(t, ChapterStatusNotStarted, DerivedStatus(""))
	assert.Equal(t, ChapterStatusNotStarted, DerivedStatus("  \n\t"))
	assert.Equal(t, ChapterStatusInProgress, DerivedStatus("x"))
}

func TestNewChapterCountsWords(t *testing.T) {
	c := NewChapter("One", "the quick  brown\nfox")
	assert.Equal(t, 4, c.WordCount)
	assert.Equal(t, ChapterStatusInProgress, c.Status)
	assert.False(t, c.StatusExplicit)
}

func TestExplicitMarkSurvivesEdits(t *testing.T) {
	c := NewChapter("One", "some text")
	require.NoError(t, c.Mark(ChapterStatusCompleted))

	c.SetContent("some text, revised")
	assert.Equal(t, ChapterStatusCompleted, c.Status)
	assert.True(t, c.StatusExplicit)

	c.Refresh()
	assert.Equal(t, ChapterStatusCompleted, c.Status)
}

func TestClearingContentResetsMark(t *testing.T) {
	c := NewChapter("One", "some text")
	require.NoError(t, c.Mark(ChapterStatusDraft))

	c.SetContent("   ")
	assert.Equal(t, ChapterStatusNotStarted, c.Status)
	assert.False(t, c.StatusExplicit)

	c.SetContent("back again")
	assert.Equal(t, ChapterStatusInProgress, c.Status)
}

func TestMarkRejections(t *testing.T) {
	c := NewChapter("One", "")
	assert.ErrorIs(t, c.Mark(ChapterStatusCompleted), ErrMarkEmptyChapter)

	c.SetContent("text")
	assert.ErrorIs(t, c.Mark(ChapterStatusInProgress), ErrMarkNotExplicit)
	assert.Equal(t, ChapterStatusInProgress, c.Status)
}

func TestClearMark(t *testing.T) {
	c := NewChapter("One", "text")
	require.NoError(t, c.Mark(ChapterStatusCompleted))
	c.ClearMark()
	assert.Equal(t, ChapterStatusInProgress, c.Status)
	assert.False(t, c.StatusExplicit)
}

func TestRefreshIgnoresUnflaggedStoredStatus(t *testing.T) {
	c := Chapter{Title: "legacy", Content: "text", Status: ChapterStatusCompleted}
	c.Refresh()
	assert.Equal(t, ChapterStatusInProgress, c.Status)
}
