package llm

import (
	"context"
	"fmt"
	"strings"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"bookforge-api/internal/domain/service"
	workflowport "bookforge-api/internal/workflow/port"
)

// EinoGenerator 通过 OpenAI 兼容接口实现 service.TextGenerator。
// 指标与追踪由全局 Eino callbacks 记录。
type EinoGenerator struct {
	factory  workflowport.ChatModelFactory
	provider string
}

// NewEinoGenerator 创建生成器
func NewEinoGenerator(factory workflowport.ChatModelFactory, provider string) *EinoGenerator {
	return &EinoGenerator{factory: factory, provider: provider}
}

// GenerateText 实现 service.TextGenerator
func (g *EinoGenerator) GenerateText(ctx context.Context, prompt string, params service.GenerationParams) (string, error) {
	ctx = service.WithProvider(ctx, g.provider)
	chatModel, err := g.factory.Get(ctx, g.provider)
	if err != nil {
		return "", service.RequestFailed(0, err)
	}

	msg, err := chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, buildModelOptions(params)...)
	if err != nil {
		return "", service.RequestFailed(0, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", service.NewGenerationError(service.KindMalformedResponse, fmt.Errorf("empty llm response"))
	}
	return msg.Content, nil
}

func buildModelOptions(params service.GenerationParams) []model.Option {
	opts := []model.Option{
		model.WithTemperature(params.Temperature),
		model.WithTopP(params.TopP),
		model.WithMaxTokens(params.MaxOutputTokens),
	}
	if params.TopK > 0 {
		// OpenAI 协议没有 top_k，Gemini 兼容端点通过扩展字段接收
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"top_k": params.TopK,
		}))
	}
	return opts
}
