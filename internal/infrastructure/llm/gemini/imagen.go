package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
	"bookforge-api/pkg/metrics"
)

// ImageRenderer Imagen :predict 客户端
type ImageRenderer struct {
	baseURL     string
	model       string
	apiKey      string
	aspectRatio string
	http        *http.Client
}

// NewImageRenderer 创建封面渲染客户端
func NewImageRenderer(cfg config.ImageConfig) (*ImageRenderer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("image renderer: api key is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ImageRenderer{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		aspectRatio: cfg.AspectRatio,
		http:        &http.Client{Timeout: timeout},
	}, nil
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// RenderImage 实现 service.ImageRenderer
func (r *ImageRenderer) RenderImage(ctx context.Context, prompt string) (*service.RenderedImage, error) {
	ctx, span := tracer.Start(ctx, "gemini.predict", trace.WithAttributes(
		attribute.String("llm.model", r.model),
	))
	defer span.End()

	img, err := r.render(ctx, prompt)
	if err != nil {
		metrics.CoverRenderTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	metrics.CoverRenderTotal.WithLabelValues("success").Inc()
	return img, nil
}

func (r *ImageRenderer) render(ctx context.Context, prompt string) (*service.RenderedImage, error) {
	body, err := json.Marshal(predictRequest{
		Instances:  []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{SampleCount: 1, AspectRatio: r.aspectRatio},
	})
	if err != nil {
		return nil, service.RequestFailed(0, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:predict?key=%s", r.baseURL, url.PathEscape(r.model), url.QueryEscape(r.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, service.RequestFailed(0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, service.RequestFailed(0, redactKey(err, r.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, service.RequestFailed(resp.StatusCode, fmt.Errorf("imagen api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, service.NewGenerationError(service.KindMalformedResponse, err)
	}
	if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
		return nil, service.NewGenerationError(service.KindMalformedResponse, fmt.Errorf("response has no image"))
	}
	data, err := base64.StdEncoding.DecodeString(out.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, service.NewGenerationError(service.KindMalformedResponse, err)
	}
	mime := out.Predictions[0].MimeType
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return &service.RenderedImage{Data: data, MimeType: mime}, nil
}
