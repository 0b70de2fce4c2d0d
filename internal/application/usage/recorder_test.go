package usage

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"bookforge-api/internal/domain/service"
	"bookforge-api/pkg/metrics"
)

func TestRecordIncrementsCounters(t *testing.T) {
	r := NewRecorder()
	before := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("book_content", "gemini", "gemini-pro", "error"))

	err := r.Record(t.Context(), service.LLMUsageInput{
		Workflow: "book_content", Provider: "gemini", Model: "gemini-pro", Failed: true, DurationMs: 1500,
	})
	assert.NoError(t, err)

	after := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("book_content", "gemini", "gemini-pro", "error"))
	assert.Equal(t, before+1, after)
}

func TestRecordRejectsNegativeTokens(t *testing.T) {
	assert.Error(t, NewRecorder().Record(t.Context(), service.LLMUsageInput{PromptTokens: -1}))
}
