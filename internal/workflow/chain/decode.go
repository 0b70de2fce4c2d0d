package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/workflow/node"
	"bookforge-api/pkg/logger"
)

// replyPreviewRunes 解析失败时日志中保留的回复长度
const replyPreviewRunes = 200

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeObject 提取唯一 JSON 对象并解码、校验
func decodeObject[T any](ctx context.Context, text string) (*T, error) {
	raw, err := node.ExtractJSONObject(text)
	if err != nil {
		logger.Debug(ctx, "model reply has no usable JSON object",
			"reply_preview", node.TruncateByRunes(text, replyPreviewRunes),
			"reply_len", len(text),
		)
		return nil, err
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, service.NewGenerationError(service.KindJSONParse, err)
	}
	if err := validate.Struct(&out); err != nil {
		return nil, service.NewGenerationError(service.KindJSONParse, fmt.Errorf("missing fields: %w", err))
	}
	return &out, nil
}
