// Package llm 按配置选择文本生成实现
package llm

import (
	"fmt"

	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/llm/gemini"
)

// NewTextGenerator 根据默认提供商类型创建生成器
func NewTextGenerator(cfg *config.Config, factory *EinoFactory, recorder service.LLMUsageRecorder) (service.TextGenerator, error) {
	name, providerCfg, ok := cfg.LLM.Provider("")
	if !ok {
		return nil, fmt.Errorf("default provider %q not configured", name)
	}
	switch providerCfg.Type {
	case config.ProviderTypeGemini:
		client, err := gemini.NewClient(name, providerCfg, recorder)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderTypeOpenAI:
		return NewEinoGenerator(factory, name), nil
	default:
		return nil, fmt.Errorf("provider %s: unsupported type %q", name, providerCfg.Type)
	}
}

// NewImageRenderer 未启用时返回 nil，调用方回退到占位封面
func NewImageRenderer(cfg *config.Config) (service.ImageRenderer, error) {
	if !cfg.Image.Enabled {
		return nil, nil
	}
	renderer, err := gemini.NewImageRenderer(cfg.Image)
	if err != nil {
		return nil, err
	}
	return renderer, nil
}
