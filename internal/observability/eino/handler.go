package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bookforge-api/internal/domain/service"
)

// startTimeKey 在 Context 中记录调用开始时间
type startTimeKey struct{}

// newChatModelCallbackHandler 为每次 ChatModel 调用开启 span 并交给 recorder 记录用量
func newChatModelCallbackHandler(recorder service.LLMUsageRecorder) *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			ctx = context.WithValue(ctx, startTimeKey{}, time.Now())

			attrs := []attribute.KeyValue{
				attribute.String("eino.workflow", service.WorkflowFromContext(ctx)),
				attribute.String("llm.provider", service.ProviderFromContext(ctx)),
				attribute.String("llm.model", modelNameFromInput(input)),
			}
			if info != nil {
				attrs = append(attrs,
					attribute.String("eino.node_name", info.Name),
					attribute.String("eino.type", info.Type),
				)
			}

			ctx, _ = otel.Tracer("eino").Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			in := usageInput(ctx, modelNameFromOutput(output))
			span := trace.SpanFromContext(ctx)
			if output != nil && output.TokenUsage != nil {
				in.PromptTokens = output.TokenUsage.PromptTokens
				in.CompletionTokens = output.TokenUsage.CompletionTokens
				span.SetAttributes(
					attribute.Int("llm.prompt_tokens", in.PromptTokens),
					attribute.Int("llm.completion_tokens", in.CompletionTokens),
				)
			}
			if recorder != nil {
				_ = recorder.Record(ctx, in)
			}
			span.End()
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			modelName := ""
			if info != nil {
				modelName = info.Type
			}
			in := usageInput(ctx, modelName)
			in.Failed = true
			if recorder != nil {
				_ = recorder.Record(ctx, in)
			}

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

func usageInput(ctx context.Context, modelName string) service.LLMUsageInput {
	return service.LLMUsageInput{
		Workflow:   service.WorkflowFromContext(ctx),
		Provider:   service.ProviderFromContext(ctx),
		Model:      modelName,
		DurationMs: int(elapsedSeconds(ctx) * 1000),
	}
}

// elapsedSeconds OnStart 未记录开始时间时返回 0
func elapsedSeconds(ctx context.Context) float64 {
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok || start.IsZero() {
		return 0
	}
	return time.Since(start).Seconds()
}

func modelNameFromInput(in *model.CallbackInput) string {
	if in == nil || in.Config == nil {
		return ""
	}
	return in.Config.Model
}

func modelNameFromOutput(out *model.CallbackOutput) string {
	if out == nil || out.Config == nil {
		return ""
	}
	return out.Config.Model
}
