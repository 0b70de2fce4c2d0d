// Package generation 统一处理生成请求的并发闸门、指标和错误归一
package generation

import (
	"context"
	"errors"
	"time"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/service"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// 生成操作名，同时用作闸门 key 与指标标签
const (
	OpBookContent     = "book_content"
	OpChapterGenerate = "chapter_generate"
	OpChapterPolish   = "chapter_polish"
	OpCoverDesign     = "cover_design"
)

// Runner 同一命名空间下同一操作只允许一个请求在途
type Runner struct {
	gate service.InflightGate
}

func NewRunner(gate service.InflightGate) *Runner {
	return &Runner{gate: gate}
}

// Run 获取闸门后执行 fn。生成失败统一转换为 ErrGenerationFailed，具体类型只写日志。
func (r *Runner) Run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	key := storage.NamespaceFromContext(ctx) + ":" + operation
	release, err := r.gate.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrGenerationInProgress) {
			metrics.GenerationRejected.WithLabelValues(operation).Inc()
			logger.Warn(ctx, "generation rejected, another request in flight", "operation", operation)
		}
		return err
	}
	defer release()

	ctx = service.WithWorkflow(ctx, operation)
	start := time.Now()
	err = fn(ctx)
	metrics.GenerationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.GenerationTotal.WithLabelValues(operation, "success").Inc()
		return nil
	}

	// 客户端断开时 transport 错误同样包裹 context.Canceled，先于失败分类判断
	if errors.Is(err, context.Canceled) {
		metrics.GenerationTotal.WithLabelValues(operation, "canceled").Inc()
		logger.Info(ctx, "generation canceled by client", "operation", operation)
		return err
	}

	var ge *service.GenerationError
	if errors.As(err, &ge) {
		metrics.GenerationTotal.WithLabelValues(operation, string(ge.Kind)).Inc()
		logger.Error(ctx, "generation failed", err,
			"operation", operation,
			"kind", string(ge.Kind),
			"status_code", ge.StatusCode,
		)
		return apperrors.ErrGenerationFailed.WithError(err)
	}

	metrics.GenerationTotal.WithLabelValues(operation, "error").Inc()
	logger.Error(ctx, "generation step failed", err, "operation", operation)
	return err
}
