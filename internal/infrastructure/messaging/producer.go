package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{"data": string(data)},
	}).Result()
	if err != nil {
		span.RecordError(err)
		metrics.RedisStreamPublished.WithLabelValues(string(stream), "error").Inc()
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	metrics.RedisStreamPublished.WithLabelValues(string(stream), "success").Inc()
	span.SetAttributes(attribute.String("stream.message_id", id))
	return id, nil
}

// PublishModeration 发布审核决定，附带请求与追踪 ID 便于串联日志
func (p *Producer) PublishModeration(ctx context.Context, decision *ModerationMessage) (string, error) {
	profileID, _ := ctx.Value(logger.ProfileIDKey).(string)
	msg, err := NewMessage(uuid.NewString(), TypeModerationDecision, profileID, decision)
	if err != nil {
		return "", err
	}
	if v, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		msg.SetMetadata("request_id", v)
	}
	if v, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		msg.SetMetadata("trace_id", v)
	}
	return p.Publish(ctx, StreamModerationAudit, msg)
}
