// Package gemini 通过原生 REST 接口调用 Gemini 文本与图片生成
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
)

var tracer = otel.Tracer("gemini")

// 错误响应体最多读取的字节数，仅用于日志
const maxErrorBody = 2048

// Client generateContent 客户端
type Client struct {
	name     string
	baseURL  string
	model    string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
	recorder service.LLMUsageRecorder
}

// NewClient 创建客户端
func NewClient(name string, cfg config.ProviderConfig, recorder service.LLMUsageRecorder) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini provider %s: api key is empty", name)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		name:     name,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
		limiter:  newLimiter(cfg.RequestsPerMinute, cfg.Burst),
		recorder: recorder,
	}, nil
}

func newLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float32 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// GenerateText 实现 service.TextGenerator
func (c *Client) GenerateText(ctx context.Context, prompt string, params service.GenerationParams) (string, error) {
	workflow := service.WorkflowFromContext(ctx)
	ctx, span := tracer.Start(ctx, "gemini.generateContent", trace.WithAttributes(
		attribute.String("eino.workflow", workflow),
		attribute.String("llm.provider", c.name),
		attribute.String("llm.model", c.model),
		attribute.Int("llm.max_output_tokens", params.MaxOutputTokens),
	))
	defer span.End()

	start := time.Now()
	text, usage, err := c.generate(ctx, prompt, params)
	usage.Workflow = workflow
	usage.Provider = c.name
	usage.Model = c.model
	usage.DurationMs = int(time.Since(start).Milliseconds())
	usage.Failed = err != nil
	if c.recorder != nil {
		_ = c.recorder.Record(ctx, usage)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", usage.PromptTokens),
		attribute.Int("llm.completion_tokens", usage.CompletionTokens),
	)
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string, params service.GenerationParams) (string, service.LLMUsageInput, error) {
	var usage service.LLMUsageInput
	if err := c.limiter.Wait(ctx); err != nil {
		return "", usage, service.RequestFailed(0, err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     params.Temperature,
			TopK:            params.TopK,
			TopP:            params.TopP,
			MaxOutputTokens: params.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", usage, service.RequestFailed(0, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", usage, service.RequestFailed(0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", usage, service.RequestFailed(0, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", usage, service.RequestFailed(resp.StatusCode, fmt.Errorf("gemini api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", usage, service.NewGenerationError(service.KindMalformedResponse, err)
	}
	if out.UsageMetadata != nil {
		usage.PromptTokens = out.UsageMetadata.PromptTokenCount
		usage.CompletionTokens = out.UsageMetadata.CandidatesTokenCount
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil ||
		len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == nil {
		return "", usage, service.NewGenerationError(service.KindMalformedResponse, fmt.Errorf("response has no candidate text"))
	}
	return *out.Candidates[0].Content.Parts[0].Text, usage, nil
}

// redactKey 避免 url.Error 把带 key 的地址写进日志
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), "key="+url.QueryEscape(key), "key=REDACTED"))
}
