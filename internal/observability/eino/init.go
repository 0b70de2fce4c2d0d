package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"

	"bookforge-api/internal/domain/service"
)

var (
	initOnce   sync.Once
	registered service.LLMUsageRecorder
)

// Init 注册 Eino 全局 callbacks（进程级一次），后续调用被忽略。
func Init(recorder service.LLMUsageRecorder) {
	initOnce.Do(func() {
		registered = recorder
		handler := cbtemplate.NewHandlerHelper().
			ChatModel(newChatModelCallbackHandler(recorder)).
			Handler()
		einocallbacks.AppendGlobalHandlers(handler)
	})
}

// Recorder 返回全局 callbacks 使用的 recorder，未初始化时为 nil
func Recorder() service.LLMUsageRecorder {
	return registered
}
