package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookforge-api/pkg/metrics"
)

// DocumentModel documents 表
type DocumentModel struct {
	Namespace string    `gorm:"primaryKey;size:128"`
	Key       string    `gorm:"primaryKey;size:64"`
	Body      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentRepository 文档存储
type DocumentRepository struct {
	client *Client
}

func NewDocumentRepository(client *Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

// Migrate 创建 documents 表
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	return r.client.db.WithContext(ctx).AutoMigrate(&DocumentModel{})
}

func (r *DocumentRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Get",
		trace.WithAttributes(attribute.String("document.key", key)))
	defer span.End()

	var m DocumentModel
	err := r.client.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Take(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		metrics.DocumentOpsTotal.WithLabelValues("postgres", "get", "miss").Inc()
		return nil, false, nil
	case err != nil:
		span.RecordError(err)
		metrics.DocumentOpsTotal.WithLabelValues("postgres", "get", "error").Inc()
		return nil, false, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("postgres", "get", "hit").Inc()
	return []byte(m.Body), true, nil
}

func (r *DocumentRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "postgres.DocumentRepository.Set",
		trace.WithAttributes(attribute.String("document.key", key)))
	defer span.End()

	m := DocumentModel{Namespace: namespace, Key: key, Body: string(value), UpdatedAt: time.Now().UTC()}
	err := r.client.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		span.RecordError(err)
		metrics.DocumentOpsTotal.WithLabelValues("postgres", "set", "error").Inc()
		return fmt.Errorf("failed to save document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("postgres", "set", "ok").Inc()
	return nil
}

func (r *DocumentRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
