package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
)

type recorderStub struct {
	calls []service.LLMUsageInput
}

func (r *recorderStub) Record(_ context.Context, in service.LLMUsageInput) error {
	r.calls = append(r.calls, in)
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, rec service.LLMUsageRecorder) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("gemini", config.ProviderConfig{
		APIKey:  "secret-key",
		BaseURL: srv.URL + "/",
		Model:   "gemini-pro",
		Timeout: 5 * time.Second,
	}, rec)
	require.NoError(t, err)
	return c
}

func TestGenerateTextSendsRequestShape(t *testing.T) {
	rec := &recorderStub{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		assert.Equal(t, 8192, body.GenerationConfig.MaxOutputTokens)
		assert.Equal(t, 40, body.GenerationConfig.TopK)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"a\":1}"}]}}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":7}}`))
	}, rec)

	out, err := c.GenerateText(service.WithWorkflow(t.Context(), "book_content"), "hello", service.BookContentParams)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "book_content", rec.calls[0].Workflow)
	assert.Equal(t, 3, rec.calls[0].PromptTokens)
	assert.Equal(t, 7, rec.calls[0].CompletionTokens)
	assert.False(t, rec.calls[0].Failed)
}

func TestGenerateTextNon2xxIsRequestFailed(t *testing.T) {
	rec := &recorderStub{}
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ignored"}]}}]}`))
	}, rec)

	_, err := c.GenerateText(t.Context(), "hello", service.BookContentParams)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrRequestFailed)

	var ge *service.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusTooManyRequests, ge.StatusCode)
	assert.True(t, rec.calls[0].Failed)
}

func TestGenerateTextMalformedResponse(t *testing.T) {
	bodies := []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{}]}`,
		`not json`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}, nil)
		_, err := c.GenerateText(t.Context(), "hello", service.CoverDesignParams)
		assert.ErrorIs(t, err, service.ErrMalformedResponse, body)
	}
}

func TestGenerateTextTransportError(t *testing.T) {
	c, err := NewClient("gemini", config.ProviderConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1", Model: "m", Timeout: time.Second}, nil)
	require.NoError(t, err)
	_, err = c.GenerateText(t.Context(), "hello", service.CoverDesignParams)
	assert.ErrorIs(t, err, service.ErrRequestFailed)
	assert.NotContains(t, err.Error(), "key=k")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("gemini", config.ProviderConfig{}, nil)
	assert.Error(t, err)
}

func TestRenderImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/imagen:predict", r.URL.Path)
		var body predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a red fox", body.Instances[0].Prompt)
		assert.Equal(t, "3:4", body.Parameters.AspectRatio)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]string{{"bytesBase64Encoded": base64.StdEncoding.EncodeToString(png), "mimeType": "image/png"}},
		})
	}))
	defer srv.Close()

	r, err := NewImageRenderer(config.ImageConfig{APIKey: "k", BaseURL: srv.URL, Model: "imagen", AspectRatio: "3:4"})
	require.NoError(t, err)
	img, err := r.RenderImage(t.Context(), "a red fox")
	require.NoError(t, err)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.MimeType)
}

func TestRenderImageEmptyPredictions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	}))
	defer srv.Close()

	r, err := NewImageRenderer(config.ImageConfig{APIKey: "k", BaseURL: srv.URL, Model: "imagen"})
	require.NoError(t, err)
	_, err = r.RenderImage(t.Context(), "x")
	assert.ErrorIs(t, err, service.ErrMalformedResponse)
}
