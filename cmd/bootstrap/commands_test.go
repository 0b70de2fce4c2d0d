package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookforge-api/internal/domain/entity"
)

func TestSampleDraftOutlineMatchesChapters(t *testing.T) {
	draft := sampleDraft()
	assert.GreaterOrEqual(t, len(draft.Outline), entity.MinOutlineEntries)
	assert.Len(t, draft.Chapters, len(draft.Outline))
	for i, ch := range draft.Chapters {
		assert.Equal(t, draft.Outline[i], ch.Title)
	}
	assert.Equal(t, entity.DefaultBookTitle, entity.DefaultBookDesign(draft).Title)
}

func TestShowRejectsUnknownKey(t *testing.T) {
	err := showCmd.RunE(showCmd, []string{"nope"})
	assert.ErrorContains(t, err, "unknown key")
}
