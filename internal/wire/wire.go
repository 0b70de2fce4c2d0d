//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/marketplace"
	"bookforge-api/internal/application/usage"
	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/filestore"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/router"
	"bookforge-api/internal/workflow/chain"
	workflowprompt "bookforge-api/internal/workflow/prompt"
)

// InitializeStore 仅初始化文档存储（用于 bootstrap）
func InitializeStore(ctx context.Context, cfg *config.Config) (*StoreLayer, func(), error) {
	wire.Build(
		StoreSet,
		wire.Struct(new(StoreLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StoreSet,
		GenerationSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// StoreSet 存储层提供者集合
var StoreSet = wire.NewSet(
	ProvideRedisClient,
	ProvideBackend,
	ProvideDocumentStore,
)

// GenerationSet 生成链路提供者集合
var GenerationSet = wire.NewSet(
	ProvideInflightGate,
	generation.NewRunner,
	ProvideUsageRecorder,
	llm.NewEinoFactory,
	ProvideTextGenerator,
	llm.NewImageRenderer,
	workflowprompt.NewRegistry,
	chain.NewBookContentChain,
	chain.NewCoverDesignChain,
	ProvideCoverStore,
	ProvideCoverFileStore,
	wire.Bind(new(service.LLMUsageRecorder), new(*usage.Recorder)),
)

// ServiceSet 应用服务提供者集合
var ServiceSet = wire.NewSet(
	book.NewService,
	marketplace.NewService,
	ProvideModerationPublisher,
	dashboard.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideRateLimiter,
	ProvideHealthHandler,
	ProvideAuthHandler,
	handler.NewBookHandler,
	handler.NewChapterHandler,
	handler.NewDesignHandler,
	handler.NewMarketplaceHandler,
	handler.NewDashboardHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	wire.Bind(new(router.StaticDir), new(*filestore.CoverStore)),
	router.NewWithDeps,
)
