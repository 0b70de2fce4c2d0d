package main

import (
	"context"
	"fmt"
	"time"

	"bookforge-api/internal/infrastructure/messaging"
	"bookforge-api/pkg/logger"
)

// handleModeration 记录一条审核决定。格式错误的消息返回错误，重试耗尽后进入死信流。
func handleModeration(ctx context.Context, msg *messaging.Message) error {
	var decision messaging.ModerationMessage
	if err := msg.UnmarshalPayload(&decision); err != nil {
		return fmt.Errorf("decode moderation payload: %w", err)
	}
	if decision.BookID == "" {
		return fmt.Errorf("moderation message %s: missing book_id", msg.ID)
	}
	switch decision.Decision {
	case messaging.DecisionApproved, messaging.DecisionRejected:
	default:
		return fmt.Errorf("moderation message %s: unknown decision %q", msg.ID, decision.Decision)
	}

	if msg.ProfileID != "" {
		ctx = logger.WithContext(ctx, logger.ProfileIDKey, msg.ProfileID)
	}
	if v := msg.GetMetadata("request_id"); v != "" {
		ctx = logger.WithContext(ctx, logger.RequestIDKey, v)
	}
	if v := msg.GetMetadata("trace_id"); v != "" {
		ctx = logger.WithContext(ctx, logger.TraceIDKey, v)
	}

	logger.Info(ctx, "moderation decision recorded",
		"book_id", decision.BookID,
		"decision", decision.Decision,
		"reason", decision.Reason,
		"moderator_id", decision.ModeratorID,
		"decided_at", decision.DecidedAt.Format(time.RFC3339),
		"lag_ms", time.Since(msg.CreatedAt).Milliseconds(),
	)
	return nil
}
