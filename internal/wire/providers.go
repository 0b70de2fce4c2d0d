package wire

import (
	"context"
	"fmt"

	"bookforge-api/internal/application/book"
	"bookforge-api/internal/application/dashboard"
	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/application/usage"
	"bookforge-api/internal/config"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/domain/service"
	"bookforge-api/internal/infrastructure/filestore"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/internal/infrastructure/messaging"
	"bookforge-api/internal/infrastructure/persistence/memory"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	"bookforge-api/internal/infrastructure/persistence/redis"
	"bookforge-api/internal/infrastructure/persistence/sqlite"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/middleware"
	einoobs "bookforge-api/internal/observability/eino"
	"bookforge-api/pkg/logger"
)

// Migrator 需要建表的存储后端
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Backend 文档存储后端及其可选的建表能力
type Backend struct {
	KV       repository.KVStore
	Migrator Migrator
	// Cached 非空时表示 KV 带 redis 读缓存
	Cached *redis.CachedStore
}

// StoreLayer bootstrap 使用的存储依赖
type StoreLayer struct {
	Backend *Backend
	Store   *storage.DocumentStore
}

// ProvideRedisClient 提供 Redis 客户端，未启用时返回 nil
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideBackend 按 storage.backend 选择文档存储后端
func ProvideBackend(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (*Backend, func(), error) {
	switch cfg.Storage.Backend {
	case "", config.StorageBackendMemory:
		return &Backend{KV: memory.NewDocumentStore()}, func() {}, nil

	case config.StorageBackendRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("storage backend redis requires cache.redis.enabled")
		}
		return &Backend{KV: redis.NewDocumentStore(redisClient)}, func() {}, nil

	case config.StorageBackendPostgres:
		client, err := postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewDocumentRepository(client)
		return withCache(cfg, redisClient, repo, repo), func() { client.Close() }, nil

	case config.StorageBackendSQLite:
		client, err := sqlite.Open(&cfg.Database.SQLite)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlite.NewDocumentRepository(client)
		return withCache(cfg, redisClient, repo, repo), func() { client.Close() }, nil

	default:
		logger.Warn(ctx, "unknown storage backend", "backend", cfg.Storage.Backend)
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func withCache(cfg *config.Config, redisClient *redis.Client, kv repository.KVStore, m Migrator) *Backend {
	if redisClient == nil || cfg.Storage.FixtureCacheTTL <= 0 {
		return &Backend{KV: kv, Migrator: m}
	}
	cached := redis.NewCachedStore(kv, redis.NewCache(redisClient), cfg.Storage.FixtureCacheTTL)
	return &Backend{KV: cached, Migrator: m, Cached: cached}
}

// ProvideDocumentStore 提供带版本信封的文档存储，持久后端启动时建表
func ProvideDocumentStore(ctx context.Context, backend *Backend) (*storage.DocumentStore, error) {
	if backend.Migrator != nil {
		if err := backend.Migrator.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate document store: %w", err)
		}
	}
	return storage.NewDocumentStore(backend.KV), nil
}

// ProvideInflightGate 多实例部署时用 redis 锁
func ProvideInflightGate(cfg *config.Config, redisClient *redis.Client) (service.InflightGate, error) {
	if cfg.Generation.InflightBackend != "redis" {
		return memory.NewInflightGate(), nil
	}
	if redisClient == nil {
		return nil, fmt.Errorf("generation.inflight_backend redis requires cache.redis.enabled")
	}
	return redis.NewInflightGate(redisClient, cfg.Generation.InflightTTL), nil
}

// ProvideUsageRecorder 创建用量记录器并注册 Eino 全局 callbacks，原生客户端与 Eino 路径共用同一个实例
func ProvideUsageRecorder() *usage.Recorder {
	recorder := usage.NewRecorder()
	einoobs.Init(recorder)
	return recorder
}

// ProvideTextGenerator 提供文本生成客户端
func ProvideTextGenerator(cfg *config.Config, factory *llm.EinoFactory, recorder *usage.Recorder) (service.TextGenerator, error) {
	return llm.NewTextGenerator(cfg, factory, recorder)
}

// ProvideCoverStore 提供封面文件存储
func ProvideCoverStore(cfg *config.Config) *filestore.CoverStore {
	return filestore.NewCoverStore(cfg.Image)
}

// ProvideModerationPublisher 未启用消息队列时返回 nil，审核仍然生效只是不投递审计消息
func ProvideModerationPublisher(cfg *config.Config, redisClient *redis.Client) dashboard.ModerationPublisher {
	if !cfg.Messaging.RedisStream.Enabled || redisClient == nil {
		return nil
	}
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), maxLen)
}

// ProvideRateLimiter 有 redis 时跨实例限流，否则进程内限流
func ProvideRateLimiter(cfg *config.Config, redisClient *redis.Client) middleware.RateLimiter {
	if redisClient != nil {
		return redis.NewRateLimiter(redisClient)
	}
	return middleware.NewLocalRateLimiter(cfg.Security.RateLimit.Burst)
}

// ProvideHealthHandler 文档存储为必需依赖，redis 为可选依赖
func ProvideHealthHandler(cfg *config.Config, store *storage.DocumentStore, redisClient *redis.Client) *handler.HealthHandler {
	h := handler.NewHealthHandler(cfg.App.Version).Require("store", store)
	if redisClient != nil {
		h.Optional("redis", redisClient)
	}
	return h
}

// ProvideAuthHandler 提供登录处理器
func ProvideAuthHandler(cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(cfg.Security.JWT)
}

// ProvideCoverFileStore 绑定封面文件存储
func ProvideCoverFileStore(store *filestore.CoverStore) book.CoverFileStore {
	return store
}
