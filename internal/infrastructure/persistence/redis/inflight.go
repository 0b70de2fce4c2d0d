package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
)

// 仅当值仍是自己的 token 时才删除，避免过期后误删别人的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InflightGate 基于 SET NX 的跨进程生成锁
type InflightGate struct {
	client *Client
	ttl    time.Duration
}

func NewInflightGate(client *Client, ttl time.Duration) *InflightGate {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InflightGate{client: client, ttl: ttl}
}

func (g *InflightGate) Acquire(ctx context.Context, key string) (func(), error) {
	ctx, span := tracer.Start(ctx, "inflight.Acquire")
	defer span.End()

	lockKey := fmt.Sprintf("inflight:%s", key)
	token := uuid.NewString()
	ok, err := g.client.rdb.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to acquire generation lock")
	}
	if !ok {
		return nil, apperrors.ErrGenerationInProgress
	}

	release := func() {
		// 请求上下文可能已取消，释放用独立上下文
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, g.client.rdb, []string{lockKey}, token).Err(); err != nil && !IsNil(err) {
			logger.Warn(rctx, "failed to release generation lock", "key", lockKey, "error", err.Error())
		}
	}
	return release, nil
}
