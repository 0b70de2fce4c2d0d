package chain

import (
	"context"
	"fmt"
	"strings"

	llmctx "bookforge-api/internal/domain/service"
	wfmodel "bookforge-api/internal/workflow/model"
	workflowprompt "bookforge-api/internal/workflow/prompt"
)

const defaultLanguage = "English"

type BookContentChain struct {
	generator llmctx.TextGenerator
	prompts   *workflowprompt.Registry
}

func NewBookContentChain(generator llmctx.TextGenerator, prompts *workflowprompt.Registry) *BookContentChain {
	return &BookContentChain{generator: generator, prompts: prompts}
}

// Invoke 生成大纲与全部章节，结果原样返回
func (c *BookContentChain) Invoke(ctx context.Context, in *wfmodel.BookContentInput) (*wfmodel.BookContent, error) {
	if c == nil || c.generator == nil {
		return nil, fmt.Errorf("text generator not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = defaultLanguage
	}

	if llmctx.WorkflowFromContext(ctx) == "unknown" {
		ctx = llmctx.WithWorkflow(ctx, "book_content")
	}
	text, err := c.prompts.Render(ctx, workflowprompt.PromptBookContentV1, map[string]any{
		"idea":     in.Idea,
		"audience": in.Audience,
		"genre":    in.Genre,
		"language": language,
	})
	if err != nil {
		return nil, err
	}

	out, err := c.generator.GenerateText(ctx, text, llmctx.BookContentParams)
	if err != nil {
		return nil, err
	}
	return decodeObject[wfmodel.BookContent](ctx, out)
}
