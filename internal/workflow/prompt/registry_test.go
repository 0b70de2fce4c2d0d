package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBookContent(t *testing.T) {
	out, err := NewRegistry().Render(t.Context(), PromptBookContentV1, map[string]any{
		"idea":     "urban beekeeping",
		"audience": "beginners",
		"genre":    "Non-fiction",
		"language": "Spanish",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Book Idea: urban beekeeping")
	assert.Contains(t, out, "Target Audience: beginners")
	assert.Contains(t, out, "Write the entire book content in Spanish language")
	assert.Contains(t, out, `"outline": ["Chapter 1 title"`)
}

func TestRenderCoverDesign(t *testing.T) {
	out, err := NewRegistry().Render(t.Context(), PromptCoverDesignV1, map[string]any{
		"title":           "Bees",
		"idea":            "urban beekeeping",
		"genre":           "Non-fiction",
		"recommendations": "None specified",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Design Recommendations: None specified")
	assert.Contains(t, out, `"imagePrompt"`)
}

func TestUnknownPrompt(t *testing.T) {
	_, err := NewRegistry().ChatTemplate("nope")
	assert.Error(t, err)
}
