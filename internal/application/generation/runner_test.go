package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/persistence/memory"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/metrics"
)

func TestRunRejectsConcurrentSameOperation(t *testing.T) {
	r := NewRunner(memory.NewInflightGate())
	ctx := storage.WithNamespace(t.Context(), "alice")

	started := make(chan struct{})
	finish := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, OpBookContent, func(context.Context) error {
			close(started)
			<-finish
			return nil
		})
	}()
	<-started

	err := r.Run(ctx, OpBookContent, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, apperrors.ErrGenerationInProgress)

	// 其他操作和其他用户不受影响
	assert.NoError(t, r.Run(ctx, OpCoverDesign, func(context.Context) error { return nil }))
	assert.NoError(t, r.Run(storage.WithNamespace(t.Context(), "bob"), OpBookContent, func(context.Context) error { return nil }))

	close(finish)
	require.NoError(t, <-done)
	assert.NoError(t, r.Run(ctx, OpBookContent, func(context.Context) error { return nil }))
}

func TestRunReleasesGateOnFailure(t *testing.T) {
	r := NewRunner(memory.NewInflightGate())
	err := r.Run(t.Context(), OpChapterPolish, func(context.Context) error {
		return service.NewGenerationError(service.KindNoJSONFound, errors.New("prose only"))
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailed)
	assert.ErrorIs(t, err, service.ErrNoJSONFound)
	assert.Equal(t, "generation failed, please try again", apperrors.AsAppError(err).Message)

	assert.NoError(t, r.Run(t.Context(), OpChapterPolish, func(context.Context) error { return nil }))
}

func TestRunPassesAppErrorsThrough(t *testing.T) {
	r := NewRunner(memory.NewInflightGate())
	err := r.Run(t.Context(), OpChapterGenerate, func(context.Context) error {
		return apperrors.ErrChapterNotFound
	})
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)
}

func TestRunSetsWorkflow(t *testing.T) {
	r := NewRunner(memory.NewInflightGate())
	require.NoError(t, r.Run(t.Context(), OpCoverDesign, func(ctx context.Context) error {
		assert.Equal(t, OpCoverDesign, service.WorkflowFromContext(ctx))
		return nil
	}))
}

func TestRunTreatsWrappedCancelAsCanceled(t *testing.T) {
	r := NewRunner(memory.NewInflightGate())
	canceled := metrics.GenerationTotal.WithLabelValues(OpChapterPolish, "canceled")
	failed := metrics.GenerationTotal.WithLabelValues(OpChapterPolish, string(service.KindRequestFailed))
	beforeCanceled := testutil.ToFloat64(canceled)
	beforeFailed := testutil.ToFloat64(failed)

	err := r.Run(t.Context(), OpChapterPolish, func(context.Context) error {
		return service.RequestFailed(0, context.Canceled)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apperrors.ErrGenerationFailed)
	assert.Equal(t, beforeCanceled+1, testutil.ToFloat64(canceled))
	assert.Equal(t, beforeFailed, testutil.ToFloat64(failed))
}
