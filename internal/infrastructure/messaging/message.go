// Package messaging 基于 Redis Stream 的审核审计消息
package messaging

import (
	"encoding/json"
	"time"

	"bookforge-api/internal/config"
)

// Message 流消息信封
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	ProfileID string            `json:"profile_id,omitempty"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(id, msgType, profileID string, payload any) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:        id,
		Type:      msgType,
		ProfileID: profileID,
		Payload:   payloadBytes,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetMetadata 设置元数据，空值忽略
func (m *Message) SetMetadata(key, value string) {
	if value == "" {
		return
	}
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// GetMetadata 获取元数据
func (m *Message) GetMetadata(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Stream 流名称
type Stream string

const (
	StreamModerationAudit Stream = "stream:moderation:audit"
)

// DLQStream 对应的死信流
func (s Stream) DLQStream() string {
	return "dlq:" + string(s)
}

// ConsumerGroup 消费者组
type ConsumerGroup string

const (
	ConsumerGroupAuditWorker ConsumerGroup = "cg-audit-worker"
)

// WithPrefix 加上配置中的消费者组前缀
func (g ConsumerGroup) WithPrefix(prefix string) ConsumerGroup {
	if prefix == "" {
		return g
	}
	return ConsumerGroup(prefix + string(g))
}

// 消息类型
const (
	TypeModerationDecision = "moderation_decision"
)

// 审核决定
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// ModerationMessage 管理员审核决定
type ModerationMessage struct {
	BookID      string    `json:"book_id"`
	Decision    string    `json:"decision"`
	Reason      string    `json:"reason,omitempty"`
	ModeratorID string    `json:"moderator_id,omitempty"`
	DecidedAt   time.Time `json:"decided_at"`
}

// BackoffConfig 重试退避
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoffConfig 默认退避配置
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    time.Second,
		Max:        time.Minute,
		Multiplier: 2,
	}
}

// BackoffFromConfig 配置缺省字段时回落到默认值
func BackoffFromConfig(cfg config.BackoffConfig) BackoffConfig {
	b := DefaultBackoffConfig()
	if cfg.Initial > 0 {
		b.Initial = cfg.Initial
	}
	if cfg.Max > 0 {
		b.Max = cfg.Max
	}
	if cfg.Multiplier > 1 {
		b.Multiplier = cfg.Multiplier
	}
	return b
}

// CalculateBackoff 第 retryCount 次重试前的等待时间
func (c BackoffConfig) CalculateBackoff(retryCount int) time.Duration {
	backoff := c.Initial
	for i := 0; i < retryCount; i++ {
		backoff = time.Duration(float64(backoff) * c.Multiplier)
		if backoff > c.Max {
			return c.Max
		}
	}
	return backoff
}
