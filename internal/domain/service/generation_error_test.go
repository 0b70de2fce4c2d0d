package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationErrorMatchesByKind(t *testing.T) {
	err := fmt.Errorf("cover: %w", RequestFailed(503, errors.New("unavailable")))

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.NotErrorIs(t, err, ErrJSONParse)
	assert.Contains(t, err.Error(), "status 503")

	kind, ok := GenerationKind(err)
	assert.True(t, ok)
	assert.Equal(t, KindRequestFailed, kind)

	_, ok = GenerationKind(errors.New("plain"))
	assert.False(t, ok)
}

func TestWorkflowProviderContext(t *testing.T) {
	ctx := WithWorkflowProvider(t.Context(), "book_content", " gemini ")
	assert.Equal(t, "book_content", WorkflowFromContext(ctx))
	assert.Equal(t, "gemini", ProviderFromContext(ctx))
	assert.Equal(t, "unknown", WorkflowFromContext(t.Context()))
}
