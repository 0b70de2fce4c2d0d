// Package usage 记录模型调用的指标
package usage

import (
	"context"
	"fmt"
	"strings"

	"bookforge-api/internal/domain/service"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// Recorder 把每次模型调用写入 Prometheus 并输出调试日志
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	workflow := labelOrUnknown(in.Workflow)
	provider := labelOrUnknown(in.Provider)
	model := strings.TrimSpace(in.Model)

	status := "success"
	if in.Failed {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(workflow, provider, model, status).Inc()
	if in.DurationMs > 0 {
		metrics.LLMCallDuration.WithLabelValues(workflow, provider, model).Observe(float64(in.DurationMs) / 1000)
	}
	if in.PromptTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, model, "prompt").Add(float64(in.PromptTokens))
	}
	if in.CompletionTokens > 0 {
		metrics.LLMTokensUsed.WithLabelValues(provider, model, "completion").Add(float64(in.CompletionTokens))
	}

	logger.Debug(ctx, "llm call recorded",
		"workflow", workflow,
		"provider", provider,
		"model", model,
		"status", status,
		"prompt_tokens", in.PromptTokens,
		"completion_tokens", in.CompletionTokens,
		"duration_ms", in.DurationMs,
	)
	return nil
}

func labelOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
