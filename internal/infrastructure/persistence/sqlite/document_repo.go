package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bookforge-api/pkg/metrics"
)

// DocumentRepository 文档存储
type DocumentRepository struct {
	client *Client
}

func NewDocumentRepository(client *Client) *DocumentRepository {
	return &DocumentRepository{client: client}
}

// Migrate 创建 documents 表
func (r *DocumentRepository) Migrate(ctx context.Context) error {
	return r.client.Migrate(ctx)
}

func (r *DocumentRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "sqlite.DocumentRepository.Get",
		trace.WithAttributes(attribute.String("document.key", key)))
	defer span.End()

	var body string
	err := r.client.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE namespace = ? AND key = ?`, namespace, key,
	).Scan(&body)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		metrics.DocumentOpsTotal.WithLabelValues("sqlite", "get", "miss").Inc()
		return nil, false, nil
	case err != nil:
		span.RecordError(err)
		metrics.DocumentOpsTotal.WithLabelValues("sqlite", "get", "error").Inc()
		return nil, false, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("sqlite", "get", "hit").Inc()
	return []byte(body), true, nil
}

func (r *DocumentRepository) Set(ctx context.Context, namespace, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "sqlite.DocumentRepository.Set",
		trace.WithAttributes(attribute.String("document.key", key)))
	defer span.End()

	_, err := r.client.db.ExecContext(ctx, `
		INSERT INTO documents (namespace, key, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		namespace, key, string(value), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		span.RecordError(err)
		metrics.DocumentOpsTotal.WithLabelValues("sqlite", "set", "error").Inc()
		return fmt.Errorf("failed to save document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("sqlite", "set", "ok").Inc()
	return nil
}

func (r *DocumentRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
