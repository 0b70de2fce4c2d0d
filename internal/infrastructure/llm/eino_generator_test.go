package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	opts  *model.Options
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeFactory struct {
	m model.BaseChatModel
}

func (f fakeFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.m, nil
}

func TestEinoGeneratorPassesParams(t *testing.T) {
	cm := &fakeChatModel{reply: schema.AssistantMessage(`{"a":1}`, nil)}
	out, err := NewEinoGenerator(fakeFactory{cm}, "gemini-openai").GenerateText(t.Context(), "p", service.CoverDesignParams)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	require.NotNil(t, cm.opts.MaxTokens)
	assert.Equal(t, 1024, *cm.opts.MaxTokens)
	require.NotNil(t, cm.opts.TopP)
	assert.InDelta(t, 0.95, *cm.opts.TopP, 1e-6)
}

func TestEinoGeneratorErrors(t *testing.T) {
	_, err := NewEinoGenerator(fakeFactory{&fakeChatModel{err: errors.New("boom")}}, "p").GenerateText(t.Context(), "p", service.BookContentParams)
	assert.ErrorIs(t, err, service.ErrRequestFailed)

	_, err = NewEinoGenerator(fakeFactory{&fakeChatModel{reply: schema.AssistantMessage("  ", nil)}}, "p").GenerateText(t.Context(), "p", service.BookContentParams)
	assert.ErrorIs(t, err, service.ErrMalformedResponse)
}

func TestNewTextGeneratorSelectsByType(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "compat",
		Providers: map[string]config.ProviderConfig{
			"compat": {Type: config.ProviderTypeOpenAI, APIKey: "k", Model: "m"},
			"native": {Type: config.ProviderTypeGemini, APIKey: "k", Model: "m"},
		},
	}}
	gen, err := NewTextGenerator(cfg, NewEinoFactory(cfg), nil)
	require.NoError(t, err)
	assert.IsType(t, &EinoGenerator{}, gen)

	cfg.LLM.DefaultProvider = "native"
	gen, err = NewTextGenerator(cfg, NewEinoFactory(cfg), nil)
	require.NoError(t, err)
	assert.NotNil(t, gen)

	cfg.LLM.DefaultProvider = "missing"
	_, err = NewTextGenerator(cfg, NewEinoFactory(cfg), nil)
	assert.Error(t, err)
}
