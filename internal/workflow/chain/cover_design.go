package chain

import (
	"context"
	"fmt"
	"strings"

	"bookforge-api/internal/domain/entity"
	llmctx "bookforge-api/internal/domain/service"
	wfmodel "bookforge-api/internal/workflow/model"
	workflowprompt "bookforge-api/internal/workflow/prompt"
)

const noRecommendations = "None specified"

type CoverDesignChain struct {
	generator llmctx.TextGenerator
	prompts   *workflowprompt.Registry
}

func NewCoverDesignChain(generator llmctx.TextGenerator, prompts *workflowprompt.Registry) *CoverDesignChain {
	return &CoverDesignChain{generator: generator, prompts: prompts}
}

func (c *CoverDesignChain) Invoke(ctx context.Context, in *wfmodel.CoverDesignInput) (*entity.CoverDesign, error) {
	if c == nil || c.generator == nil {
		return nil, fmt.Errorf("text generator not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	recommendations := strings.TrimSpace(in.DesignRecommendations)
	if recommendations == "" {
		recommendations = noRecommendations
	}

	if llmctx.WorkflowFromContext(ctx) == "unknown" {
		ctx = llmctx.WithWorkflow(ctx, "cover_design")
	}
	text, err := c.prompts.Render(ctx, workflowprompt.PromptCoverDesignV1, map[string]any{
		"title":           in.Title,
		"idea":            in.Idea,
		"genre":           in.Genre,
		"recommendations": recommendations,
	})
	if err != nil {
		return nil, err
	}

	out, err := c.generator.GenerateText(ctx, text, llmctx.CoverDesignParams)
	if err != nil {
		return nil, err
	}
	return decodeObject[entity.CoverDesign](ctx, out)
}
