package redis

import (
	"context"
	"fmt"

	"bookforge-api/pkg/metrics"
)

// DocumentStore 以 doc:{namespace}:{key} 保存文档，不设过期
type DocumentStore struct {
	client *Client
}

func NewDocumentStore(client *Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func documentKey(namespace, key string) string {
	return fmt.Sprintf("doc:%s:%s", namespace, key)
}

func (s *DocumentStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, documentKey(namespace, key))
	switch {
	case IsNil(err):
		metrics.DocumentOpsTotal.WithLabelValues("redis", "get", "miss").Inc()
		return nil, false, nil
	case err != nil:
		metrics.DocumentOpsTotal.WithLabelValues("redis", "get", "error").Inc()
		return nil, false, fmt.Errorf("redis get document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("redis", "get", "hit").Inc()
	return val, true, nil
}

func (s *DocumentStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.Set(ctx, documentKey(namespace, key), value, 0); err != nil {
		metrics.DocumentOpsTotal.WithLabelValues("redis", "set", "error").Inc()
		return fmt.Errorf("redis set document %s: %w", key, err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("redis", "set", "ok").Inc()
	return nil
}

func (s *DocumentStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}
