package service

import "context"

// GenerationParams 单次文本生成参数
type GenerationParams struct {
	Temperature     float32
	TopK            int
	TopP            float32
	MaxOutputTokens int
}

// 两个生成客户端共用的固定参数
var (
	BookContentParams = GenerationParams{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 8192}
	CoverDesignParams = GenerationParams{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 1024}
)

// TextGenerator 文本生成端口。实现需返回 *GenerationError 描述失败类型。
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// RenderedImage 渲染结果
type RenderedImage struct {
	Data     []byte
	MimeType string
}

// ImageRenderer 根据提示词渲染封面图片
type ImageRenderer interface {
	RenderImage(ctx context.Context, prompt string) (*RenderedImage, error)
}

// InflightGate 同一 key 同时只允许一个生成请求
type InflightGate interface {
	// Acquire 获取成功时返回释放函数；已被占用时返回 errors.ErrGenerationInProgress
	Acquire(ctx context.Context, key string) (release func(), err error)
}
