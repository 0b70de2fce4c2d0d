package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"bookforge-api/internal/config"
	"bookforge-api/pkg/logger"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按 profile 和路由限流，限流器故障时放行
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limit := cfg.RequestsPerSecond
	if limit <= 0 {
		limit = 100
	}

	return func(c *gin.Context) {
		profileID := c.GetString(ContextProfileID)
		if profileID == "" {
			profileID = "anonymous"
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := RateLimitKey(profileID, c.Request.Method, route)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     http.StatusTooManyRequests,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}

// RateLimitKey 限流键：profile + 方法 + 路由模板
func RateLimitKey(profileID, method, route string) string {
	return "ratelimit:" + profileID + ":" + method + ":" + route
}

// localSweepInterval 两次清理令牌桶的最小间隔
const localSweepInterval = time.Minute

// LocalRateLimiter 进程内令牌桶限流，未配置 redis 时使用。
// 令牌已回满的桶与新建的桶等价，定期清理以限制 map 大小。
type LocalRateLimiter struct {
	burst     int
	now       func() time.Time
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

// NewLocalRateLimiter burst 为 0 时等于每秒请求数
func NewLocalRateLimiter(burst int) *LocalRateLimiter {
	return &LocalRateLimiter{
		burst:    burst,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow 每个 key 一个令牌桶
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= localSweepInterval {
		l.sweep(now)
	}
	lim, ok := l.limiters[key]
	if !ok {
		burst := l.burst
		if burst <= 0 {
			burst = limit
		}
		lim = rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), burst)
		l.limiters[key] = lim
	}
	return lim.AllowN(now, 1), nil
}

// sweep 调用方持有 l.mu
func (l *LocalRateLimiter) sweep(now time.Time) {
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}
