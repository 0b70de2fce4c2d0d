package service

import "context"

// LLMUsageInput 一次模型调用的可观测数据
type LLMUsageInput struct {
	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
	// Failed 调用失败时为 true，此时 token 数为 0
	Failed bool
}

// LLMUsageRecorder 记录模型调用。实现应为 best-effort，不阻塞主流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
