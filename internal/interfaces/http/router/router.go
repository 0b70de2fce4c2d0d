// Package router 提供 HTTP 路由配置
package router

import (
	"bookforge-api/internal/config"
	"bookforge-api/internal/interfaces/http/dto"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StaticDir 以静态文件方式对外暴露的本地目录
type StaticDir interface {
	Dir() string
	PublicPath() string
}

// RouterHandlers 路由依赖的全部处理器
type RouterHandlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Book        *handler.BookHandler
	Chapter     *handler.ChapterHandler
	Design      *handler.DesignHandler
	Marketplace *handler.MarketplaceHandler
	Dashboard   *handler.DashboardHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *RouterHandlers
	limiter  middleware.RateLimiter
	covers   StaticDir
}

// New 创建新的路由器
func New(cfg *config.Config, handlers *RouterHandlers, limiter middleware.RateLimiter, covers StaticDir) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
		covers:   covers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// NewWithDeps 供依赖注入使用
func NewWithDeps(cfg *config.Config, handlers RouterHandlers, limiter middleware.RateLimiter, covers StaticDir) *Router {
	return New(cfg, &handlers, limiter, covers)
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Enabled:   r.cfg.Security.JWT.Enabled,
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
	}))

	// 认证之后解析命名空间，限流按命名空间计数
	r.engine.Use(middleware.Profile(r.cfg.Storage.DefaultNamespace))
	if r.limiter != nil {
		r.engine.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 封面图片
	if r.covers != nil && r.covers.Dir() != "" {
		r.engine.Static(r.covers.PublicPath(), r.covers.Dir())
	}

	r.engine.NoRoute(func(c *gin.Context) {
		dto.NotFound(c, "route not found")
	})

	v1 := r.engine.Group("/v1")
	RegisterV1Routes(v1, h)
}
